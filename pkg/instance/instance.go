package instance

import "os"

// GetID returns the process instance identifier used in logs and audit events.
func GetID() string {
	for _, key := range []string{"LENSFINDERZ_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
