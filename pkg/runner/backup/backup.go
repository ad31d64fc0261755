// Package backup moves transcripts in and out of the journal as JSON.
package backup

import (
	"context"
	"errors"
	"io"
	"os"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/printers"
)

// Export writes every day to File, or to Out when File is empty or "-".
type Export struct {
	Service *app.Service
	Printer *printers.PrettyPrint
	File    string
	Out     io.Writer
}

func (e *Export) Do(ctx context.Context) error {
	if e.Service == nil {
		return errors.New("export: no journal")
	}
	if e.File == "" || e.File == "-" {
		out := e.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := e.Service.Export(ctx, out)
		return err
	}

	f, err := os.Create(e.File)
	if err != nil {
		return err
	}
	n, err := e.Service.Export(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	pp := e.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.Note("Exported %d days to %s.", n, e.File)
	return nil
}

// Import reads days from File, or from In when File is empty or "-".
type Import struct {
	Service   *app.Service
	Printer   *printers.PrettyPrint
	File      string
	In        io.Reader
	Overwrite bool
}

func (i *Import) Do(ctx context.Context) error {
	if i.Service == nil {
		return errors.New("import: no journal")
	}
	in := i.In
	if i.File != "" && i.File != "-" {
		f, err := os.Open(i.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if in == nil {
		in = os.Stdin
	}

	res, err := i.Service.Import(ctx, in, i.Overwrite)
	if err != nil {
		return err
	}
	pp := i.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.Note("Imported %d days, skipped %d existing.", len(res.Imported), len(res.Skipped))
	return nil
}
