// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfoxide

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/scostello/pdf-oxide/logger"
)

type ParsingMode string

const (
	Strict     ParsingMode = "strict"
	BestEffort ParsingMode = "best-effort"
)

// Config holds both the teacher's original concurrency/retry knobs and
// the resource limits that bound a single page's content-stream and
// structure-tree traversal (§5 of the design notes): CycleDepthLimit caps
// the page-tree /Parent walk (other object-graph walks, such as an object
// stream's /Extends chain, do not consult it), XObjectRecursionLimit caps
// nested Form XObject Do invocations, and MaxContentOperators caps how
// many operator tokens a single content stream may execute before it is
// cut off and Content.Truncated is set.
type Config struct {
	MaxConcurrentPDFs    int           `validate:"min=1,max=10"`
	MaxWorkersPerPDF     int           `validate:"min=1,max=10"`
	WorkerTimeout        time.Duration `validate:"required"`
	ParsingMode          ParsingMode   `validate:"oneof=strict best-effort"`
	MaxRetries           int           `validate:"min=0,max=3"`
	MaxTotalChars        int           `validate:"min=0"`
	CycleDepthLimit      int           `validate:"min=1"`
	XObjectRecursionLimit int          `validate:"min=1"`
	MaxContentOperators  int           `validate:"min=0"`
	DebugOn              bool
	Logger               logger.LogFunc
	// Metrics           MetricsInterface
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentPDFs:     5,
		MaxWorkersPerPDF:      1,
		WorkerTimeout:         5 * time.Second,
		ParsingMode:           BestEffort,
		MaxRetries:            3,
		MaxTotalChars:         0,
		CycleDepthLimit:       32,
		XObjectRecursionLimit: 8,
		MaxContentOperators:   10_000_000,
		DebugOn:               false,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
