package model_test

import (
	"testing"

	model "github.com/samiksha-labs/samiksha/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvidenceBundle(t *testing.T) {
	Convey("Given an empty bundle", t, func() {
		bundle := model.NewEvidenceBundle()

		Convey("Then keyword matching should be available out of the box", func() {
			So(bundle.MethodAvailable(model.MethodKeywordFallback), ShouldBeTrue)
			So(bundle.MethodAvailable(model.MethodSemantic), ShouldBeFalse)
		})

		Convey("When resolving an unknown check", func() {
			_, _, ok := bundle.Resolve("financial.sorBasis", model.DefaultPreference())

			Convey("Then it should report a gap, not a false finding", func() {
				So(ok, ShouldBeFalse)
				So(bundle.Has("financial.sorBasis"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a bundle with findings from several methods", t, func() {
		bundle := model.NewEvidenceBundle()
		bundle.MarkAvailable(model.MethodSemantic)
		bundle.MarkAvailable(model.MethodNLP)
		bundle.Add("financial.sorBasis", model.MethodKeywordFallback, model.Finding{Satisfied: false})
		bundle.Add("financial.sorBasis", model.MethodNLP, model.Finding{Satisfied: true})
		bundle.Add("financial.sorBasis", model.MethodSemantic, model.Finding{Satisfied: true, Score: 0.85})

		Convey("When resolving with the default preference", func() {
			f, m, ok := bundle.Resolve("financial.sorBasis", model.DefaultPreference())

			Convey("Then the strongest method should win", func() {
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, model.MethodSemantic)
				So(f.Score, ShouldEqual, 0.85)
			})
		})

		Convey("When the strongest method is not marked available", func() {
			restricted := model.NewEvidenceBundle()
			restricted.MarkAvailable(model.MethodNLP)
			restricted.Add("financial.sorBasis", model.MethodSemantic, model.Finding{Satisfied: true})
			restricted.Add("financial.sorBasis", model.MethodNLP, model.Finding{Satisfied: true})

			f, m, ok := restricted.Resolve("financial.sorBasis", model.DefaultPreference())

			Convey("Then resolution should skip to the next available method", func() {
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, model.MethodNLP)
				So(f.Satisfied, ShouldBeTrue)
			})
		})

		Convey("When the compliance preference is applied", func() {
			bundle.MarkAvailable(model.MethodQA)
			bundle.Add("financial.sorBasis", model.MethodQA, model.Finding{Satisfied: false})

			_, m, ok := bundle.Resolve("financial.sorBasis", model.CompliancePreference())

			Convey("Then the QA answer should outrank semantic similarity", func() {
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, model.MethodQA)
			})
		})

		Convey("When a finding arrives from an invalid method", func() {
			bundle.Add("technical.design", model.MethodHybrid, model.Finding{Satisfied: true})

			Convey("Then it should be dropped", func() {
				So(bundle.Has("technical.design"), ShouldBeFalse)
			})
		})
	})

	Convey("Given dimension coverage checks", t, func() {
		bundle := model.NewEvidenceBundle()
		bundle.Add("certificates.landAvailability", model.MethodKeywordFallback, model.Finding{Satisfied: false})

		Convey("Then only the covered dimension should report true", func() {
			So(bundle.DimensionCovered(model.DimensionCertificates), ShouldBeTrue)
			So(bundle.DimensionCovered(model.DimensionFinancial), ShouldBeFalse)
		})

		Convey("Then an unsatisfied finding still counts as coverage", func() {
			So(bundle.Has("certificates.landAvailability"), ShouldBeTrue)
		})
	})
}

func TestDimensionOf(t *testing.T) {
	Convey("Given check names in the dotted convention", t, func() {
		Convey("When the prefix is a known dimension", func() {
			d, ok := model.DimensionOf("projectProfile.timeline")

			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, model.DimensionProjectProfile)
		})

		Convey("When the prefix is unknown", func() {
			_, ok := model.DimensionOf("mystery.check")

			So(ok, ShouldBeFalse)
		})

		Convey("When the name has no prefix at all", func() {
			_, ok := model.DimensionOf("timeline")

			So(ok, ShouldBeFalse)
		})
	})
}

func TestMethodValid(t *testing.T) {
	Convey("Given the closed method set", t, func() {
		Convey("Then input methods should validate", func() {
			So(model.MethodKeywordFallback.Valid(), ShouldBeTrue)
			So(model.MethodNLP.Valid(), ShouldBeTrue)
			So(model.MethodSemantic.Valid(), ShouldBeTrue)
			So(model.MethodQA.Valid(), ShouldBeTrue)
		})

		Convey("Then derived and unknown methods should not", func() {
			So(model.MethodHybrid.Valid(), ShouldBeFalse)
			So(model.Method("regex").Valid(), ShouldBeFalse)
		})
	})
}
