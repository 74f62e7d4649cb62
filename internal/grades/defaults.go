package grades

import "github.com/hanley0809-ux/climbing-points-app/internal/climb"

// VScale is the bouldering V-scale, hardest first.
var VScale = []string{"V10", "V9", "V8", "V7", "V6", "V5", "V4", "V3", "V2", "V1", "V0"}

// FrenchScale is the French sport grade scale, hardest first.
var FrenchScale = []string{
	"8a", "7c+", "7c", "7b+", "7b", "7a+", "7a",
	"6c+", "6c", "6b+", "6b", "6a+", "6a",
	"5c", "5b", "5a",
}

// Defaults returns a registry with the built-in scales.
func Defaults() *Registry {
	r := NewRegistry()
	r.Set(climb.Bouldering, MustScale(string(climb.Bouldering), VScale))
	r.Set(climb.SportClimbing, MustScale(string(climb.SportClimbing), FrenchScale))
	return r
}
