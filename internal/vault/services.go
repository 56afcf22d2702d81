package vault

import "fmt"

// ServiceName identifies an external service that has a stored credential.
// The set is closed: unknown names are rejected at startup and on lookup.
type ServiceName string

const (
	// ServiceCoCoTangki is the Beacukai upload service for CoCoTangki documents
	ServiceCoCoTangki ServiceName = "beacukai_cocotangki"
	// ServiceStatus is the Beacukai response/status inquiry service
	ServiceStatus ServiceName = "beacukai_status"
)

var knownServices = map[ServiceName]string{
	ServiceCoCoTangki: "Beacukai CoCoTangki upload",
	ServiceStatus:     "Beacukai status inquiry",
}

// ParseServiceName validates a service name against the registry
func ParseServiceName(name string) (ServiceName, error) {
	s := ServiceName(name)
	if _, ok := knownServices[s]; !ok {
		return "", fmt.Errorf("unknown service %q", name)
	}
	return s, nil
}

// ValidateServiceNames checks configured names at startup
func ValidateServiceNames(names []string) ([]ServiceName, error) {
	out := make([]ServiceName, 0, len(names))
	for _, n := range names {
		s, err := ParseServiceName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Description returns the human readable label of the service
func (s ServiceName) Description() string {
	return knownServices[s]
}
