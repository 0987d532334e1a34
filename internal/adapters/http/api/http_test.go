package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	api "github.com/samiksha-labs/samiksha/internal/adapters/http/api"
	"github.com/samiksha-labs/samiksha/internal/adapters/mq/queue"
	"github.com/samiksha-labs/samiksha/internal/adapters/repository"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps implements api.Dependencies with scriptable behavior.
type fakeDeps struct {
	mu         sync.Mutex
	inFlight   map[string]bool
	registered map[string]model.Document
	enqueued   []queue.Job
	results    map[string]*model.ProcessingResult

	rejectBegin   bool
	rejectEnqueue bool
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		inFlight:   make(map[string]bool),
		registered: make(map[string]model.Document),
		results:    make(map[string]*model.ProcessingResult),
	}
}

func (d *fakeDeps) Begin(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rejectBegin || d.inFlight[id] {
		return false
	}
	d.inFlight[id] = true
	return true
}

func (d *fakeDeps) End(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, id)
}

func (d *fakeDeps) Register(_ context.Context, doc model.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registered[doc.ID] = doc
	return nil
}

func (d *fakeDeps) Enqueue(_ context.Context, j queue.Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rejectEnqueue {
		return false
	}
	d.enqueued = append(d.enqueued, j)
	return true
}

func (d *fakeDeps) ListDocuments(_ context.Context) ([]repository.DocumentRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]repository.DocumentRecord, 0, len(d.registered))
	for _, doc := range d.registered {
		out = append(out, repository.DocumentRecord{Document: doc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *fakeDeps) Document(_ context.Context, id string) (repository.DocumentRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.registered[id]
	if !ok {
		return repository.DocumentRecord{}, repository.ErrNotFound
	}
	return repository.DocumentRecord{Document: doc}, nil
}

func (d *fakeDeps) Result(_ context.Context, id string) (*model.ProcessingResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	res, ok := d.results[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return res, nil
}

func (d *fakeDeps) tracking(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight[id]
}

func (d *fakeDeps) jobs() []queue.Job {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]queue.Job(nil), d.enqueued...)
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "queueLength": 0}
}

func newTestServer(deps *fakeDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, fakeStats{}).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func submission(id string) string {
	return `{
		"documentId": "` + id + `",
		"filename": "dpr.pdf",
		"language": "EN",
		"declaredCostCrore": 150,
		"sector": "rural roads",
		"evidence": {
			"availableMethods": ["semantic"],
			"checks": {
				"projectProfile.timeline": {"semantic": {"satisfied": true, "score": 0.9}}
			}
		}
	}`
}

func postJSON(ts *httptest.Server, body string) (*http.Response, map[string]any) {
	resp, err := http.Post(ts.URL+"/analyses", "application/json", bytes.NewBufferString(body))
	So(err, ShouldBeNil)
	defer resp.Body.Close()

	var decoded map[string]any
	So(json.NewDecoder(resp.Body).Decode(&decoded), ShouldBeNil)
	return resp, decoded
}

func TestHandlePostAnalysis(t *testing.T) {
	Convey("Given the API over fake dependencies", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		Reset(ts.Close)

		Convey("When submitting a valid document", func() {
			resp, body := postJSON(ts, submission("doc-1"))

			Convey("Then it should be accepted asynchronously", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(body["documentId"], ShouldEqual, "doc-1")
				So(body["status"], ShouldEqual, "accepted")
				So(body["duplicate"], ShouldEqual, false)
			})

			Convey("And the document should be registered and enqueued", func() {
				So(deps.registered, ShouldContainKey, "doc-1")
				jobs := deps.jobs()
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].Document.ID, ShouldEqual, "doc-1")
				So(jobs[0].DeclaredCostCrore, ShouldEqual, 150)
				So(jobs[0].Evidence.Has("projectProfile.timeline"), ShouldBeTrue)
			})
		})

		Convey("When no document id is supplied", func() {
			body := strings.Replace(submission("x"), `"documentId": "x",`, "", 1)
			resp, decoded := postJSON(ts, body)

			Convey("Then the server should assign one", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(decoded["documentId"], ShouldNotBeEmpty)
			})
		})

		Convey("When the same document is already in flight", func() {
			_, _ = postJSON(ts, submission("doc-1"))
			resp, body := postJSON(ts, submission("doc-1"))

			Convey("Then it should acknowledge as a duplicate", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["status"], ShouldEqual, "duplicate")
				So(body["duplicate"], ShouldEqual, true)
			})

			Convey("And it should not be enqueued twice", func() {
				So(deps.jobs(), ShouldHaveLength, 1)
			})
		})

		Convey("When the payload is malformed JSON", func() {
			resp, body := postJSON(ts, "{not json")

			Convey("Then it should be a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When required fields are missing", func() {
			resp, body := postJSON(ts, `{"filename":"", "evidence":{"checks":{}}}`)

			Convey("Then validation should reject it", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["message"], ShouldContainSubstring, "filename")
			})
		})

		Convey("When an unknown extraction method is supplied", func() {
			payload := strings.Replace(submission("doc-1"), `"semantic": {`, `"telepathy": {`, 1)
			resp, body := postJSON(ts, payload)

			Convey("Then validation should name the method", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["message"], ShouldContainSubstring, "telepathy")
			})
		})

		Convey("When a finding's method is missing from availableMethods", func() {
			body := strings.Replace(submission("doc-1"),
				`"availableMethods": ["semantic"],`, "", 1)
			resp, _ := postJSON(ts, body)

			Convey("Then the finding should still be resolvable", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)

				jobs := deps.jobs()
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].Evidence.MethodAvailable(model.MethodSemantic), ShouldBeTrue)

				f, m, ok := jobs[0].Evidence.Resolve("projectProfile.timeline", model.DefaultPreference())
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, model.MethodSemantic)
				So(f.Satisfied, ShouldBeTrue)
			})
		})

		Convey("When the queue applies backpressure", func() {
			deps.rejectEnqueue = true
			resp, body := postJSON(ts, submission("doc-1"))

			Convey("Then the client should be told to retry later", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
				So(body["code"], ShouldEqual, "backpressure")
			})

			Convey("And the in-flight mark should be rolled back", func() {
				So(deps.tracking("doc-1"), ShouldBeFalse)
			})
		})
	})
}

func TestHandleGetAnalysis(t *testing.T) {
	Convey("Given a registered document", t, func() {
		deps := newFakeDeps()
		deps.registered["doc-1"] = model.Document{
			ID:         "doc-1",
			Filename:   "dpr.pdf",
			Language:   "EN",
			UploadedAt: time.Now().UTC(),
			Status:     model.StatusProcessing,
		}
		ts := newTestServer(deps)
		Reset(ts.Close)

		Convey("When fetching it mid-processing", func() {
			resp, err := http.Get(ts.URL + "/analyses/doc-1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)

			Convey("Then the status should come back without a result", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["status"], ShouldEqual, "processing")
				So(body, ShouldNotContainKey, "result")
			})
		})

		Convey("When the document has completed", func() {
			doc := deps.registered["doc-1"]
			doc.Status = model.StatusCompleted
			deps.registered["doc-1"] = doc
			deps.results["doc-1"] = &model.ProcessingResult{
				DocumentID: "doc-1",
				Scores:     model.Scores{Total: 88, Grade: model.GradeGood},
			}

			resp, err := http.Get(ts.URL + "/analyses/doc-1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var body struct {
				Status string                  `json:"status"`
				Result *model.ProcessingResult `json:"result"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)

			Convey("Then the persisted result should be attached", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Status, ShouldEqual, "completed")
				So(body.Result, ShouldNotBeNil)
				So(body.Result.Scores.Grade, ShouldEqual, model.GradeGood)
			})
		})

		Convey("When fetching an unknown document", func() {
			resp, err := http.Get(ts.URL + "/analyses/ghost")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should be not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the path parameter is malformed", func() {
			resp, err := http.Get(ts.URL + "/analyses/doc-1/extra")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should be a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestHandleListAnalyses(t *testing.T) {
	Convey("Given several registered documents", t, func() {
		deps := newFakeDeps()
		deps.registered["doc-1"] = model.Document{
			ID: "doc-1", Filename: "a.pdf", Language: "EN", Status: model.StatusCompleted,
		}
		deps.registered["doc-2"] = model.Document{
			ID: "doc-2", Filename: "b.pdf", Language: "HI", Status: model.StatusProcessing,
		}
		ts := newTestServer(deps)
		Reset(ts.Close)

		Convey("When listing the collection", func() {
			resp, err := http.Get(ts.URL + "/analyses")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var body struct {
				Analyses []struct {
					DocumentID string `json:"documentId"`
					Filename   string `json:"filename"`
					Status     string `json:"status"`
				} `json:"analyses"`
				Total int `json:"total"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)

			Convey("Then every document should appear with its status", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Total, ShouldEqual, 2)
				So(body.Analyses, ShouldHaveLength, 2)
				So(body.Analyses[0].DocumentID, ShouldEqual, "doc-1")
				So(body.Analyses[0].Status, ShouldEqual, "completed")
				So(body.Analyses[1].DocumentID, ShouldEqual, "doc-2")
				So(body.Analyses[1].Status, ShouldEqual, "processing")
			})
		})

		Convey("When the store is empty", func() {
			empty := newFakeDeps()
			emptyServer := newTestServer(empty)
			Reset(emptyServer.Close)

			resp, err := http.Get(emptyServer.URL + "/analyses")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var body struct {
				Analyses []any `json:"analyses"`
				Total    int   `json:"total"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)

			Convey("Then the listing should be empty, not null", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body.Total, ShouldEqual, 0)
				So(body.Analyses, ShouldNotBeNil)
				So(body.Analyses, ShouldBeEmpty)
			})
		})
	})
}

func TestAuxiliaryRoutes(t *testing.T) {
	Convey("Given the full route table", t, func() {
		deps := newFakeDeps()
		ts := newTestServer(deps)
		Reset(ts.Close)

		Convey("When fetching stats", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)

			Convey("Then the provider snapshot should be served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["started"], ShouldEqual, true)
			})
		})

		Convey("When fetching the health endpoint", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it should respond OK", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When fetching the API contract", func() {
			resp, err := http.Get(ts.URL + "/openapi.yaml")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the embedded document should be served as YAML", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "yaml")
			})
		})
	})
}
