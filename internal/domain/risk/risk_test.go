package risk_test

import (
	"testing"

	"github.com/samiksha-labs/samiksha/internal/domain/model"
	risk "github.com/samiksha-labs/samiksha/internal/domain/risk"
	. "github.com/smartystreets/goconvey/convey"
)

func fullEvidence() *model.EvidenceBundle {
	bundle := model.NewEvidenceBundle()
	bundle.MarkAvailable(model.MethodNLP)
	bundle.Add("financial.omPlan", model.MethodNLP, model.Finding{Satisfied: true})
	bundle.Add("projectProfile.timeline", model.MethodNLP, model.Finding{Satisfied: true})
	bundle.Add("technical.gatiShaktiAlignment", model.MethodNLP, model.Finding{Satisfied: true})
	return bundle
}

func TestPredictor_Predict(t *testing.T) {
	Convey("Given a predictor with default constants", t, func() {
		predictor := risk.NewPredictor()

		Convey("When predicting the same document twice", func() {
			first := predictor.Predict("doc-1", "EN", fullEvidence())
			second := predictor.Predict("doc-1", "EN", fullEvidence())

			Convey("Then the predictions should be identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When predicting across many documents", func() {
			ids := []string{"doc-1", "doc-2", "doc-3", "a", "a-long-document-identifier"}
			for _, id := range ids {
				prediction := predictor.Predict(id, "EN", model.NewEvidenceBundle())

				Convey("Then every risk should stay inside [0,1] for "+id, func() {
					So(prediction.CostOverrunRisk, ShouldBeBetweenOrEqual, 0, 1)
					So(prediction.DelayRisk, ShouldBeBetweenOrEqual, 0, 1)
					So(prediction.ImplementationRisk, ShouldBeBetweenOrEqual, 0, 1)
				})
			}
		})

		Convey("When the declared language changes", func() {
			english := predictor.Predict("doc-1", "EN", fullEvidence())
			hindi := predictor.Predict("doc-1", "HI", fullEvidence())

			Convey("Then the seed should differ", func() {
				So(hindi, ShouldNotResemble, english)
			})
		})

		Convey("When supporting evidence is absent", func() {
			withEvidence := predictor.Predict("doc-1", "EN", fullEvidence())
			withoutEvidence := predictor.Predict("doc-1", "EN", model.NewEvidenceBundle())

			Convey("Then each risk should be strictly higher", func() {
				So(withoutEvidence.CostOverrunRisk, ShouldBeGreaterThan, withEvidence.CostOverrunRisk)
				So(withoutEvidence.DelayRisk, ShouldBeGreaterThan, withEvidence.DelayRisk)
				So(withoutEvidence.ImplementationRisk, ShouldBeGreaterThan, withEvidence.ImplementationRisk)
			})

			Convey("And the penalized risks should still be clamped", func() {
				So(withoutEvidence.CostOverrunRisk, ShouldBeLessThanOrEqualTo, 1)
				So(withoutEvidence.DelayRisk, ShouldBeLessThanOrEqualTo, 1)
				So(withoutEvidence.ImplementationRisk, ShouldBeLessThanOrEqualTo, 1)
			})
		})

		Convey("When evidence exists but is negative", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodNLP)
			bundle.Add("financial.omPlan", model.MethodNLP, model.Finding{Satisfied: false})
			bundle.Add("projectProfile.timeline", model.MethodNLP, model.Finding{Satisfied: false})
			bundle.Add("technical.gatiShaktiAlignment", model.MethodNLP, model.Finding{Satisfied: false})

			negative := predictor.Predict("doc-1", "EN", bundle)
			positive := predictor.Predict("doc-1", "EN", fullEvidence())

			Convey("Then presence alone should avoid the penalty", func() {
				So(negative, ShouldResemble, positive)
			})
		})
	})

	Convey("Given a predictor with maximal penalties", t, func() {
		predictor := risk.NewPredictor(
			risk.WithPenalties(1, 1, 1),
		)

		Convey("When every supporting evidence is absent", func() {
			prediction := predictor.Predict("doc-1", "EN", model.NewEvidenceBundle())

			Convey("Then clamping should cap every risk at 1", func() {
				So(prediction.CostOverrunRisk, ShouldEqual, 1)
				So(prediction.DelayRisk, ShouldEqual, 1)
				So(prediction.ImplementationRisk, ShouldEqual, 1)
			})
		})
	})
}
