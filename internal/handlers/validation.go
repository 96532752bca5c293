package handlers

import (
	"fmt"
	"strings"
	"time"
)

const maxFilenameLength = 255

const (
	defaultChartTopics = 5
	maxChartTopics     = 10
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// validate collects errors and returns a *ValidationError if any exist.
func validate(checks ...func() string) error {
	var errs []string
	for _, check := range checks {
		if msg := check(); msg != "" {
			errs = append(errs, msg)
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func requireNonEmpty(field, value string) string {
	if strings.TrimSpace(value) == "" {
		return fmt.Sprintf("%s is required", field)
	}
	return ""
}

func checkMaxLength(field, value string, max int) string {
	if len(value) > max {
		return fmt.Sprintf("%s exceeds maximum length of %d", field, max)
	}
	return ""
}

func checkPositive(field string, value int64) string {
	if value <= 0 {
		return fmt.Sprintf("%s must be positive", field)
	}
	return ""
}

// validateUpload validates an upload request.
func validateUpload(req *UploadVideoRequest) error {
	return validate(
		func() string { return requireNonEmpty("filename", req.Filename) },
		func() string { return checkMaxLength("filename", req.Filename, maxFilenameLength) },
		func() string { return checkPositive("size_bytes", req.SizeBytes) },
	)
}

// ValidateVideoID validates a video id path parameter.
func ValidateVideoID(videoID string) error {
	return validate(
		func() string { return requireNonEmpty("video id", videoID) },
		func() string { return checkMaxLength("video id", videoID, maxFilenameLength) },
	)
}

// ParseAsOf parses the as_of query parameter (YYYY-MM-DD). An empty value
// defaults to the current UTC day's end so today's reviews are included.
func ParseAsOf(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.UTC(), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, &ValidationError{Errors: []string{
			fmt.Sprintf("as_of must be a YYYY-MM-DD date, got %q", raw),
		}}
	}
	// End of the requested day, so items dated any time that day count.
	return day.Add(24*time.Hour - time.Nanosecond), nil
}

// ParseTopN parses the top query parameter, bounded to [1, 10], default 5.
func ParseTopN(raw string) (int, error) {
	if raw == "" {
		return defaultChartTopics, nil
	}
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil || n < 1 || n > maxChartTopics {
		return 0, &ValidationError{Errors: []string{
			fmt.Sprintf("top must be an integer within [1, %d], got %q", maxChartTopics, raw),
		}}
	}
	return n, nil
}
