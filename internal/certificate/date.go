package certificate

import (
	"fmt"
	"time"
)

// InputDateLayout is the form dates arrive in.
const InputDateLayout = "2006-01-02"

// PrintedDateLayout is how dates appear on the certificate.
const PrintedDateLayout = "2006年01月02日"

// FormatDate converts a YYYY-MM-DD date to its printed form.
func FormatDate(s string) (string, error) {
	t, err := time.Parse(InputDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrData, s)
	}
	return t.Format(PrintedDateLayout), nil
}
