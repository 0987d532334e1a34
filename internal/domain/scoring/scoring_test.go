package scoring_test

import (
	"testing"

	"github.com/samiksha-labs/samiksha/internal/domain/model"
	scoring "github.com/samiksha-labs/samiksha/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScorer_Score(t *testing.T) {
	Convey("Given a completeness scorer with three checks", t, func() {
		scorer := scoring.NewScorer(scoring.CriterionSpec{
			Name:     "completeness",
			MaxScore: 30,
			Checks: []string{
				"projectProfile.geoCoordinates",
				"projectProfile.timeline",
				"projectProfile.siteImagery",
			},
		})

		Convey("When every check is satisfied", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodSemantic)
			bundle.Add("projectProfile.geoCoordinates", model.MethodSemantic, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.timeline", model.MethodSemantic, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.siteImagery", model.MethodSemantic, model.Finding{Satisfied: true})

			result := scorer.Score(bundle)

			Convey("Then it should earn the full ceiling", func() {
				So(result.Score, ShouldEqual, 30)
				So(result.Percentage, ShouldEqual, 100)
				So(result.MethodUsed, ShouldEqual, model.MethodSemantic)
			})

			Convey("And the section tally should report three of three", func() {
				tally := result.Sections["projectProfile"]
				So(tally.Found, ShouldEqual, 3)
				So(tally.Total, ShouldEqual, 3)
			})
		})

		Convey("When two of three checks are satisfied", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodNLP)
			bundle.Add("projectProfile.geoCoordinates", model.MethodNLP, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.timeline", model.MethodNLP, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.siteImagery", model.MethodNLP, model.Finding{Satisfied: false})

			result := scorer.Score(bundle)

			Convey("Then the score should be round(30 * 2/3)", func() {
				So(result.Score, ShouldEqual, 20)
				So(result.Score, ShouldBeLessThanOrEqualTo, result.MaxScore)
			})
		})

		Convey("When a check has no evidence at all", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodNLP)
			bundle.Add("projectProfile.geoCoordinates", model.MethodNLP, model.Finding{Satisfied: true})

			result := scorer.Score(bundle)

			Convey("Then the gap should be explicit in the evidence trail", func() {
				So(result.Evidence, ShouldContain, "projectProfile.timeline: no evidence available")
				So(result.Evidence, ShouldContain, "projectProfile.siteImagery: no evidence available")
			})

			Convey("And the gap should count false, not error", func() {
				So(result.Score, ShouldEqual, 10)
			})

			Convey("And confidence should reflect the resolved share", func() {
				So(result.Confidence, ShouldAlmostEqual, 0.33, 0.01)
			})
		})

		Convey("When the preferred method is unavailable", func() {
			bundle := model.NewEvidenceBundle()
			// Semantic findings exist but the method is not marked available.
			bundle.Add("projectProfile.geoCoordinates", model.MethodSemantic, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.geoCoordinates", model.MethodKeywordFallback, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.timeline", model.MethodKeywordFallback, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.siteImagery", model.MethodKeywordFallback, model.Finding{Satisfied: false})

			result := scorer.Score(bundle)

			Convey("Then the fallback must be visible, never disguised", func() {
				So(result.MethodUsed, ShouldEqual, model.MethodKeywordFallback)
			})
		})

		Convey("When checks resolve through different methods", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodSemantic)
			bundle.Add("projectProfile.geoCoordinates", model.MethodSemantic, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.timeline", model.MethodKeywordFallback, model.Finding{Satisfied: true})
			bundle.Add("projectProfile.siteImagery", model.MethodKeywordFallback, model.Finding{Satisfied: true})

			result := scorer.Score(bundle)

			Convey("Then the method tag should collapse to hybrid", func() {
				So(result.MethodUsed, ShouldEqual, model.MethodHybrid)
			})
		})
	})

	Convey("Given a compliance scorer with four certificate checks", t, func() {
		scorer := scoring.NewScorer(scoring.CriterionSpec{
			Name:     "compliance",
			MaxScore: 25,
			Checks: []string{
				"certificates.landAvailability",
				"certificates.costCertification",
				"certificates.nonDuplication",
				"certificates.statutoryClearances",
			},
			Preference: model.CompliancePreference(),
		})

		Convey("When zero of four certificates are found", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodQA)
			bundle.Add("certificates.landAvailability", model.MethodQA, model.Finding{Satisfied: false})
			bundle.Add("certificates.costCertification", model.MethodQA, model.Finding{Satisfied: false})
			bundle.Add("certificates.nonDuplication", model.MethodQA, model.Finding{Satisfied: false})
			bundle.Add("certificates.statutoryClearances", model.MethodQA, model.Finding{Satisfied: false})

			result := scorer.Score(bundle)

			Convey("Then the score should be exactly zero", func() {
				So(result.Score, ShouldEqual, 0)
				So(result.Percentage, ShouldEqual, 0)
				So(result.MethodUsed, ShouldEqual, model.MethodQA)
			})
		})

		Convey("When QA answers outrank semantic findings", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodQA)
			bundle.MarkAvailable(model.MethodSemantic)
			bundle.Add("certificates.landAvailability", model.MethodQA, model.Finding{Satisfied: true})
			bundle.Add("certificates.landAvailability", model.MethodSemantic, model.Finding{Satisfied: false})
			bundle.Add("certificates.costCertification", model.MethodQA, model.Finding{Satisfied: true})
			bundle.Add("certificates.nonDuplication", model.MethodQA, model.Finding{Satisfied: true})
			bundle.Add("certificates.statutoryClearances", model.MethodQA, model.Finding{Satisfied: true})

			result := scorer.Score(bundle)

			Convey("Then the QA finding should win", func() {
				So(result.Score, ShouldEqual, 25)
				So(result.MethodUsed, ShouldEqual, model.MethodQA)
			})
		})
	})

	Convey("Given a scorer with no checks configured", t, func() {
		scorer := scoring.NewScorer(scoring.CriterionSpec{
			Name:     "empty",
			MaxScore: 20,
		})

		Convey("When scoring any bundle", func() {
			result := scorer.Score(model.NewEvidenceBundle())

			Convey("Then it should return zero without dividing by zero", func() {
				So(result.Score, ShouldEqual, 0)
				So(result.MethodUsed, ShouldEqual, model.MethodKeywordFallback)
				So(result.Evidence, ShouldContain, "no evidence available")
			})
		})
	})
}

func TestAlignmentScorer_Score(t *testing.T) {
	Convey("Given a GatiShakti alignment scorer", t, func() {
		scorer := scoring.NewAlignmentScorer(scoring.AlignmentSpec{
			Name:     "gatishakti_alignment",
			MaxScore: 5,
			Check:    "technical.gatiShaktiAlignment",
			Ladder: []scoring.AlignmentBand{
				{Min: 0.25, Fraction: 0.3},
				{Min: 0.75, Fraction: 1.0},
				{Min: 0.5, Fraction: 0.6},
			},
		})

		Convey("When the check is explicitly satisfied", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodSemantic)
			bundle.Add("technical.gatiShaktiAlignment", model.MethodSemantic, model.Finding{Satisfied: true, Score: 0.9})

			result := scorer.Score(bundle)

			Convey("Then it should earn the full ceiling", func() {
				So(result.Score, ShouldEqual, 5)
			})
		})

		Convey("When only a similarity strength is present", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodSemantic)
			bundle.Add("technical.gatiShaktiAlignment", model.MethodSemantic, model.Finding{Satisfied: false, Score: 0.6})

			result := scorer.Score(bundle)

			Convey("Then the strongest matching band should apply", func() {
				So(result.Score, ShouldEqual, 3)
			})
		})

		Convey("When the strength is below every band", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodSemantic)
			bundle.Add("technical.gatiShaktiAlignment", model.MethodSemantic, model.Finding{Satisfied: false, Score: 0.1})

			result := scorer.Score(bundle)

			Convey("Then the score should be zero", func() {
				So(result.Score, ShouldEqual, 0)
			})
		})

		Convey("When the check has no evidence", func() {
			result := scorer.Score(model.NewEvidenceBundle())

			Convey("Then it should report the gap and fall back", func() {
				So(result.Score, ShouldEqual, 0)
				So(result.MethodUsed, ShouldEqual, model.MethodKeywordFallback)
				So(result.Evidence, ShouldContain, "technical.gatiShaktiAlignment: no evidence available")
			})
		})
	})
}
