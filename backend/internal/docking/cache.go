package docking

import (
	"bufio"
	"os"
	"strings"

	"github.com/sarat-asymmetrica/jdock/backend/internal/pdbqt"
)

// cachedResult is what a previous run's output file already recorded for a
// ligand: how many MODELs it wrote and the first MODEL's scores, enough to
// reprint the summary row without re-docking.
type cachedResult struct {
	numConfs   int
	idockScore float64
	rfScore    float64
}

// checkCache reports a previously-written outputPath's result, or ok=false
// if outputPath doesn't exist or is the same file as inputPath (docking
// in place, where a stale file from a prior ligand can't be mistaken for
// this ligand's output).
func checkCache(inputPath, outputPath string) (cachedResult, bool, error) {
	if samePath(inputPath, outputPath) {
		return cachedResult{}, false, nil
	}
	f, err := os.Open(outputPath)
	if os.IsNotExist(err) {
		return cachedResult{}, false, nil
	}
	if err != nil {
		return cachedResult{}, false, err
	}
	defer f.Close()

	var cr cachedResult
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 10 {
			continue
		}
		record := line[:10]
		switch {
		case record == "MODEL     ":
			cr.numConfs++
		case cr.numConfs == 1 && strings.HasPrefix(record, "REMARK 921"):
			cr.idockScore, err = pdbqt.ReadRemarkScore(line)
			if err != nil {
				return cachedResult{}, false, err
			}
		case cr.numConfs == 1 && strings.HasPrefix(record, "REMARK 927"):
			cr.rfScore, err = pdbqt.ReadRemarkScore(line)
			if err != nil {
				return cachedResult{}, false, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return cachedResult{}, false, err
	}
	return cr, cr.numConfs > 0, nil
}

// samePath reports whether a and b name the same file on disk (same
// directory entry), the Go equivalent of boost::filesystem::equivalent.
func samePath(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}
