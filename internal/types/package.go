package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PackageRecord is one entry of the community package catalog. Title and
// Repository are required; Directory stays empty until the package is matched
// to an on-disk clone.
type PackageRecord struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Repository  string `json:"repository"`
	Directory   string `json:"directory"`
}

// MalformedRecordError reports a package object that does not conform to the
// persisted schema (unknown field, missing required field, wrong shape).
type MalformedRecordError struct {
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed package record: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed package record: %s", e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// DecodePackageRecord deserializes a single package object, rejecting unknown
// fields and records missing a title or repository.
func DecodePackageRecord(data []byte) (PackageRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var record PackageRecord
	if err := dec.Decode(&record); err != nil {
		return PackageRecord{}, &MalformedRecordError{Reason: "invalid package object", Err: err}
	}
	if strings.TrimSpace(record.Title) == "" {
		return PackageRecord{}, &MalformedRecordError{Reason: "missing required field: title"}
	}
	if strings.TrimSpace(record.Repository) == "" {
		return PackageRecord{}, &MalformedRecordError{Reason: "missing required field: repository"}
	}
	return record, nil
}

// SameRepository reports whether two records point at the same remote,
// comparing the trimmed repository URLs.
func (p PackageRecord) SameRepository(other PackageRecord) bool {
	return strings.TrimSpace(p.Repository) == strings.TrimSpace(other.Repository)
}
