package version

import "os"

// EnvServiceName overrides the service name reported to the trace collector.
const EnvServiceName = "LITBRIDGE_SERVICE_NAME"

const defaultServiceName = "litpeer"

// ServiceName returns the service name of the process.
func ServiceName() string {
	if name := os.Getenv(EnvServiceName); name != "" {
		return name
	}

	return defaultServiceName
}
