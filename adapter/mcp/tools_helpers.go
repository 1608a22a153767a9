package mcp

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/rendezvous/internal/meetings/domain"
)

func (t *toolset) parseTime(field, value string) (time.Time, error) {
	parsed, err := domain.ParseTimestamp(value, t.app.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return parsed, nil
}

func (t *toolset) parseOptionalTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := t.parseTime(field, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
