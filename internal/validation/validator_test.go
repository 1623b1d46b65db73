// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Query string `validate:"required"`
	Limit int    `validate:"min=1,max=12"`
}

func TestValidateStructPasses(t *testing.T) {
	t.Parallel()

	req := sampleRequest{Query: "pond liner", Limit: 12}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	t.Parallel()

	req := sampleRequest{Query: "", Limit: 5}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error for empty Query")
	}
	if len(err.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(err.Errors()))
	}
	if err.Errors()[0].Field() != "Query" || err.Errors()[0].Tag() != "required" {
		t.Errorf("unexpected error detail: %+v", err.Errors()[0])
	}
	if !strings.Contains(err.Error(), "Query is required") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	t.Parallel()

	req := sampleRequest{Query: "", Limit: 0}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(err.Errors()))
	}
	if !strings.Contains(err.Error(), ";") {
		t.Errorf("expected joined messages, got %q", err.Error())
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator must return the same instance")
	}
}
