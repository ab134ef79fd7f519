package docstore

import (
	"errors"
	"testing"
)

func TestCheckCollection(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		wantErr error
	}{
		{name: "users", in: "users"},
		{name: "with dash and digits", in: "users-2024_v1"},
		{name: "empty", in: "", wantErr: ErrEmptyCollection},
		{name: "path traversal", in: "../users", wantErr: ErrInvalidCollection},
		{name: "starts with digit", in: "1users", wantErr: ErrInvalidCollection},
		{name: "sql", in: "users'; drop", wantErr: ErrInvalidCollection},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckCollection(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("CheckCollection(%q) = %v, want %v", tc.in, err, tc.wantErr)
			}
		})
	}
}

func TestCheckField(t *testing.T) {
	if err := CheckField("uid"); err != nil {
		t.Errorf("CheckField(uid) = %v", err)
	}
	if err := CheckField("$.uid"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("CheckField($.uid) = %v, want %v", err, ErrInvalidField)
	}
}
