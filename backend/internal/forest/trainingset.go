package forest

// DefaultTrainingSet is a compact, bundled reference panel, the only
// training set the rescoring forest is trained on. It is not a substitute for a full experimental affinity
// database (e.g. PDBbind): it exists so `--rf_score` produces a
// deterministic, reproducible forest out of the box, the same role
// original_source's bundled parameter tables play for the primary scoring
// function.
//
// Each entry's Features approximate the kind of sparse, small-integer
// atom-pair counts a real complex produces; Targets span a plausible pKd
// range (2-12) so the trained trees see both weak and strong binders.
var DefaultTrainingSet = []Sample{
	{Features: f(3, 1, 0, 0, 5, 2, 1, 0, 1, 0, 1, 0, 2, 1, 0, 0, 0, 0), Target: 4.2},
	{Features: f(8, 2, 1, 0, 10, 3, 2, 1, 2, 0, 1, 0, 3, 1, 1, 0, 0, 0), Target: 6.1},
	{Features: f(12, 4, 2, 1, 14, 5, 3, 1, 3, 1, 2, 0, 4, 2, 1, 0, 0, 0), Target: 7.8},
	{Features: f(2, 0, 0, 0, 3, 1, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0), Target: 3.0},
	{Features: f(15, 5, 3, 2, 18, 6, 4, 2, 4, 1, 2, 1, 5, 3, 2, 1, 0, 0), Target: 9.1},
	{Features: f(6, 2, 1, 0, 8, 2, 1, 0, 1, 0, 0, 0, 2, 1, 0, 0, 0, 0), Target: 5.0},
	{Features: f(9, 3, 1, 1, 11, 4, 2, 1, 2, 0, 1, 0, 3, 1, 1, 0, 0, 0), Target: 6.7},
	{Features: f(20, 7, 4, 3, 22, 8, 5, 3, 5, 2, 3, 1, 6, 4, 2, 1, 1, 0), Target: 11.0},
	{Features: f(4, 1, 0, 0, 6, 2, 1, 0, 1, 0, 0, 0, 1, 1, 0, 0, 0, 0), Target: 4.5},
	{Features: f(10, 3, 2, 1, 13, 4, 3, 1, 3, 1, 1, 0, 3, 2, 1, 0, 0, 0), Target: 7.0},
	{Features: f(1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0), Target: 2.3},
	{Features: f(17, 6, 3, 2, 20, 7, 4, 2, 4, 2, 2, 1, 5, 3, 2, 0, 1, 0), Target: 9.8},
	{Features: f(7, 2, 1, 0, 9, 3, 1, 0, 2, 0, 1, 0, 2, 1, 0, 0, 0, 0), Target: 5.5},
	{Features: f(13, 4, 2, 1, 15, 5, 3, 2, 3, 1, 2, 0, 4, 2, 1, 0, 0, 0), Target: 8.0},
	{Features: f(5, 1, 0, 0, 7, 2, 1, 0, 1, 0, 0, 0, 2, 0, 0, 0, 0, 0), Target: 4.8},
	{Features: f(22, 8, 5, 4, 24, 9, 6, 3, 6, 2, 3, 1, 7, 4, 3, 1, 1, 1), Target: 11.8},
	{Features: f(11, 3, 2, 1, 13, 4, 2, 1, 3, 1, 1, 0, 3, 2, 1, 0, 0, 0), Target: 7.2},
	{Features: f(3, 1, 0, 0, 4, 1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0), Target: 3.6},
	{Features: f(18, 6, 4, 2, 21, 7, 5, 2, 5, 2, 2, 1, 6, 3, 2, 1, 0, 0), Target: 10.2},
	{Features: f(8, 3, 1, 1, 10, 3, 2, 1, 2, 1, 1, 0, 2, 1, 1, 0, 0, 0), Target: 6.3},
	{Features: f(2, 0, 0, 0, 3, 1, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0), Target: 2.8},
	{Features: f(14, 5, 3, 2, 17, 6, 4, 2, 4, 1, 2, 1, 4, 3, 1, 0, 0, 0), Target: 8.6},
	{Features: f(9, 2, 1, 0, 11, 4, 2, 1, 2, 0, 1, 0, 3, 1, 0, 0, 0, 0), Target: 6.0},
	{Features: f(16, 5, 3, 2, 19, 6, 4, 2, 4, 2, 2, 1, 5, 3, 2, 0, 0, 0), Target: 9.4},
}

// f pads a short hand-written feature list out to NumFeatures with zeros,
// used only to keep the literal table above readable (the 18 values given
// cover the protein C and N rows of the protein*9+ligand layout; the zero
// tail is the protein O and S rows).
func f(values ...float64) [NumFeatures]float64 {
	var out [NumFeatures]float64
	copy(out[:], values)
	return out
}
