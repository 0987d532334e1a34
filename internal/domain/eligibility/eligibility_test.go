package eligibility_test

import (
	"testing"

	eligibility "github.com/samiksha-labs/samiksha/internal/domain/eligibility"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func consistentEvidence() *model.EvidenceBundle {
	bundle := model.NewEvidenceBundle()
	bundle.MarkAvailable(model.MethodNLP)
	bundle.Add("financial.budgetConsistency", model.MethodNLP, model.Finding{Satisfied: true})
	bundle.Add("projectProfile.timeline", model.MethodNLP, model.Finding{Satisfied: true})
	return bundle
}

func TestChecker_Check(t *testing.T) {
	Convey("Given a checker with the default 20-500 crore band", t, func() {
		checker := eligibility.NewChecker(
			eligibility.WithNegativeSectors([]string{"real estate", "tobacco"}),
		)

		Convey("When the declared cost is inside the band", func() {
			elig, _ := checker.Check(consistentEvidence(), 150, "rural roads")

			Convey("Then the size gate should pass", func() {
				So(elig.SizeCheckOk, ShouldBeTrue)
				So(elig.OutOfRange, ShouldBeFalse)
				So(elig.NegativeList, ShouldBeFalse)
			})
		})

		Convey("When the declared cost sits exactly on a bound", func() {
			lower, _ := checker.Check(consistentEvidence(), 20, "rural roads")
			upper, _ := checker.Check(consistentEvidence(), 500, "rural roads")

			Convey("Then both inclusive bounds should pass", func() {
				So(lower.SizeCheckOk, ShouldBeTrue)
				So(upper.SizeCheckOk, ShouldBeTrue)
			})
		})

		Convey("When the declared cost is 1000 crore", func() {
			elig, _ := checker.Check(consistentEvidence(), 1000, "rural roads")

			Convey("Then outOfRange should be the derived negation", func() {
				So(elig.SizeCheckOk, ShouldBeFalse)
				So(elig.OutOfRange, ShouldBeTrue)
			})
		})

		Convey("When the sector is on the negative list", func() {
			elig, flags := checker.Check(consistentEvidence(), 150, "Real Estate")

			Convey("Then matching should be case-insensitive", func() {
				So(elig.NegativeList, ShouldBeTrue)
				So(flags.IneligibleSector, ShouldBeTrue)
			})

			Convey("And the size gate should be unaffected", func() {
				So(elig.SizeCheckOk, ShouldBeTrue)
			})
		})

		Convey("When the sector is clean", func() {
			_, flags := checker.Check(consistentEvidence(), 150, "irrigation")

			Convey("Then the sector flag should stay unset", func() {
				So(flags.IneligibleSector, ShouldBeFalse)
			})
		})

		Convey("When budget consistency evidence is negative", func() {
			bundle := consistentEvidence()
			bundle.Add("financial.budgetConsistency", model.MethodNLP, model.Finding{Satisfied: false})

			_, flags := checker.Check(bundle, 150, "rural roads")

			Convey("Then the mismatch flag should fire", func() {
				So(flags.BudgetMismatch, ShouldBeTrue)
			})
		})

		Convey("When budget consistency evidence is wholly absent", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodNLP)
			bundle.Add("projectProfile.timeline", model.MethodNLP, model.Finding{Satisfied: true})

			_, flags := checker.Check(bundle, 150, "rural roads")

			Convey("Then absence should not be a mismatch", func() {
				So(flags.BudgetMismatch, ShouldBeFalse)
			})
		})

		Convey("When timeline evidence is absent", func() {
			bundle := model.NewEvidenceBundle()
			bundle.MarkAvailable(model.MethodNLP)
			bundle.Add("financial.budgetConsistency", model.MethodNLP, model.Finding{Satisfied: true})

			_, flags := checker.Check(bundle, 150, "rural roads")

			Convey("Then the timeline flag should fire", func() {
				So(flags.TimelineIssues, ShouldBeTrue)
			})
		})
	})

	Convey("Given a checker with required checks configured", t, func() {
		checker := eligibility.NewChecker(
			eligibility.WithRequiredChecks([]string{
				"financial.budgetConsistency",
				"projectProfile.timeline",
				"certificates.landAvailability",
			}),
		)

		Convey("When one required check has no evidence", func() {
			_, flags := checker.Check(consistentEvidence(), 150, "rural roads")

			Convey("Then missingData should fire", func() {
				So(flags.MissingData, ShouldBeTrue)
			})
		})

		Convey("When every required check has evidence", func() {
			bundle := consistentEvidence()
			bundle.Add("certificates.landAvailability", model.MethodNLP, model.Finding{Satisfied: false})

			_, flags := checker.Check(bundle, 150, "rural roads")

			Convey("Then missingData should stay unset", func() {
				So(flags.MissingData, ShouldBeFalse)
			})
		})
	})
}
