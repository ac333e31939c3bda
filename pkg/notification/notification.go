package notification

import "fmt"

type Notification interface {
	Send(to, msg string) error
}

// maxAlertDetail keeps alert texts inside two SMS segments.
const maxAlertDetail = 200

func ImportAlertMessage(filename, detail string) string {
	if r := []rune(detail); len(r) > maxAlertDetail {
		detail = string(r[:maxAlertDetail]) + "..."
	}
	return fmt.Sprintf("price list import of %s failed: %s", filename, detail)
}
