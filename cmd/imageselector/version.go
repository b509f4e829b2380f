package main

import (
	"fmt"

	"github.com/example/imageselector/internal/ocr"
)

type versionCmd struct{ r *root }

func (v *versionCmd) Run() error {
	fmt.Fprintf(v.r.stdout, "%s version %s\n", v.r.program, version)
	if commit != "" {
		fmt.Fprintf(v.r.stdout, "commit %s", commit)
		if date != "" {
			fmt.Fprintf(v.r.stdout, " built %s", date)
		}
		fmt.Fprintln(v.r.stdout)
	}
	fmt.Fprintf(v.r.stdout, "ocr: %v\n", ocr.Available)
	return nil
}
