// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package validation

import (
	"strings"
	"testing"
)

type statusRequest struct {
	Key    string `validate:"required"`
	Status string `validate:"required,statuslabel"`
}

type reportRequest struct {
	From string `validate:"omitempty,reportdate"`
	To   string `validate:"omitempty,reportdate"`
}

type creatorRequest struct {
	Name   string `validate:"required,min=1,max=120"`
	Handle string `validate:"required,handle"`
}

func TestValidateStatusRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     statusRequest
		wantErr bool
	}{
		{"valid paid", statusRequest{Key: "ana", Status: "paid"}, false},
		{"valid rejected", statusRequest{Key: "ana", Status: "rejected"}, false},
		{"case insensitive", statusRequest{Key: "ana", Status: "PAID"}, false},
		{"unknown label", statusRequest{Key: "ana", Status: "pending"}, true},
		{"missing key", statusRequest{Status: "paid"}, true},
		{"missing status", statusRequest{Key: "ana"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportDates(t *testing.T) {
	tests := []struct {
		name    string
		req     reportRequest
		wantErr bool
	}{
		{"both empty", reportRequest{}, false},
		{"valid dates", reportRequest{From: "2026-03-01", To: "2026-03-31"}, false},
		{"slash format", reportRequest{From: "03/01/2026"}, true},
		{"not a date", reportRequest{To: "yesterday"}, true},
		{"truncated", reportRequest{From: "2026-03"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCreatorHandle(t *testing.T) {
	tests := []struct {
		handle  string
		wantErr bool
	}{
		{"ana", false},
		{"ana.reels_2026", false},
		{"a-b", false},
		{"Ana", true},
		{"@ana", true},
		{"has space", true},
		{"", true},
		{strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			req := creatorRequest{Name: "Ana", Handle: tt.handle}
			err := ValidateStruct(&req)
			if (err != nil) != tt.wantErr {
				t.Errorf("handle %q: ValidateStruct() = %v, wantErr %v", tt.handle, err, tt.wantErr)
			}
		})
	}
}

func TestValidationMessage(t *testing.T) {
	req := statusRequest{Key: "", Status: "pending"}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation failure")
	}

	msg := verr.Message()
	if !strings.Contains(msg, "Key is required") {
		t.Errorf("message %q missing required-key part", msg)
	}
	if !strings.Contains(msg, "paid, lead, rejected") {
		t.Errorf("message %q missing status label hint", msg)
	}
	if len(verr.Errors()) != 2 {
		t.Errorf("got %d field errors, want 2", len(verr.Errors()))
	}
}
