package commands

import (
	"fmt"
	"io"

	"github.com/mysensors/mysensors-go/internal/vectors"
)

// RunVectors checks a vector file, or the built-in set when path is
// empty, and returns the number of failed vectors.
func RunVectors(path string, verbose bool, w io.Writer) (int, error) {
	var (
		f   *vectors.File
		err error
	)
	if path == "" {
		f, err = vectors.Builtin()
	} else {
		f, err = vectors.Load(path)
	}
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, r := range vectors.CheckAll(f) {
		if r.Passed() {
			if verbose {
				fmt.Fprintf(w, "PASS  %s\n", r.ID)
			}
			continue
		}
		failed++
		fmt.Fprintf(w, "FAIL  %s\n", r.ID)
		for _, msg := range r.Failures {
			fmt.Fprintf(w, "      %s\n", msg)
		}
	}

	fmt.Fprintf(w, "%d vectors, %d passed, %d failed\n", len(f.Vectors), len(f.Vectors)-failed, failed)
	if failed > 0 {
		return failed, fmt.Errorf("%d of %d vectors failed", failed, len(f.Vectors))
	}
	return 0, nil
}
