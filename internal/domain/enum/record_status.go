package enum

// RecordStatus is the active flag shared by branches, products and services
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "active"
	RecordStatusInactive RecordStatus = "inactive"
)

var recordStatuses = []RecordStatus{RecordStatusActive, RecordStatusInactive}

func RecordStatuses() []RecordStatus {
	return append([]RecordStatus(nil), recordStatuses...)
}

func (s RecordStatus) String() string {
	return string(s)
}

func (s RecordStatus) IsValid() bool {
	_, ok := match(recordStatuses, string(s))
	return ok
}

func ParseRecordStatus(s string) (RecordStatus, bool) {
	return match(recordStatuses, s)
}

func (s *RecordStatus) UnmarshalJSON(data []byte) error {
	return unmarshal(data, recordStatuses, "status", s)
}

// ClientStatus segments clients for the CRM screens
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusVIP      ClientStatus = "vip"
)

var clientStatuses = []ClientStatus{ClientStatusActive, ClientStatusInactive, ClientStatusVIP}

func ClientStatuses() []ClientStatus {
	return append([]ClientStatus(nil), clientStatuses...)
}

func (s ClientStatus) String() string {
	return string(s)
}

func (s ClientStatus) IsValid() bool {
	_, ok := match(clientStatuses, string(s))
	return ok
}

func ParseClientStatus(s string) (ClientStatus, bool) {
	return match(clientStatuses, s)
}

func (s *ClientStatus) UnmarshalJSON(data []byte) error {
	return unmarshal(data, clientStatuses, "client status", s)
}
