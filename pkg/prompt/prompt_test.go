package prompt

import (
	"errors"
	"io"
	"testing"

	"github.com/manifoldco/promptui"
)

func TestParseBool(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    bool
		wantErr bool
	}{
		"yes":   {in: "yes", want: true},
		"Y":     {in: "Y", want: true},
		"no":    {in: "no"},
		"false": {in: "false"},
		"maybe": {in: "maybe", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseBool(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseBool(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("ParseBool(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDone(t *testing.T) {
	for _, err := range []error{promptui.ErrInterrupt, promptui.ErrEOF, io.EOF} {
		if !Done(err) {
			t.Errorf("Done(%v) = false", err)
		}
	}
	if Done(errors.New("boom")) {
		t.Errorf("Done(boom) = true")
	}
}
