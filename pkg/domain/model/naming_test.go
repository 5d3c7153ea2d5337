package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/jari1882/simkb/pkg/domain/model"
)

func TestNormalizeName(t *testing.T) {
	gt.Value(t, model.NormalizeName("Carrier A")).Equal("carrier a")
	gt.Value(t, model.NormalizeName("  Carrier   A  ")).Equal("carrier a")
	gt.Value(t, model.NormalizeName("CARRIER\tA")).Equal("carrier a")
	gt.Value(t, model.NormalizeName("")).Equal("")
}

func TestMatchesName(t *testing.T) {
	gt.Value(t, model.MatchesName("Carrier A", "carrier")).Equal(true)
	gt.Value(t, model.MatchesName("Carrier A", "CARRIER  A")).Equal(true)
	gt.Value(t, model.MatchesName("Carrier A", "carrier b")).Equal(false)
	gt.Value(t, model.MatchesName("Chief Product Officer", "product")).Equal(true)
	gt.Value(t, model.MatchesName("anything", "")).Equal(true)
}
