package mqtt

// Topic constants for BLE Mapper.
//
// Scheme: blemapper/{category}/{subject}
const (
	// TopicCatalogEvent carries catalog change events (created, updated,
	// deleted, seeded, parsed).
	TopicCatalogEvent = "blemapper/catalog/event"

	// TopicSystemStatus carries online/offline status, including the LWT
	// message published by the broker on unexpected disconnect.
	TopicSystemStatus = "blemapper/system/status"
)
