package seed

import (
	"fmt"

	"github.com/blemapper/blemapper-core/internal/attribute"
)

// generatedVendor describes one programmatically expanded device vendor.
type generatedVendor struct {
	name       string
	model      string
	uuidPrefix string
	services   [][2]string // name, description
}

// generatedVendors is the fixed list of expanded vendors. The slice index
// drives the UUID construction scheme: even indexes get short 16-bit-style
// codes, odd indexes get long hyphenated UUIDs.
var generatedVendors = []generatedVendor{
	{
		name:       "Samsung",
		model:      "Galaxy Watch 4",
		uuidPrefix: "6C53DB",
		services: [][2]string{
			{"Health Service", "Activity tracking and health monitoring"},
			{"Notification Service", "Handles phone notifications"},
			{"Battery Service", "Battery level monitoring"},
		},
	},
	{
		name:       "Garmin",
		model:      "Forerunner 945",
		uuidPrefix: "395F8D",
		services: [][2]string{
			{"Running Dynamics", "Advanced running metrics"},
			{"Training Status", "Training load and recovery"},
			{"Pulse Ox", "Blood oxygen monitoring"},
		},
	},
	{
		name:       "Polar",
		model:      "H10",
		uuidPrefix: "FB005C",
		services: [][2]string{
			{"Heart Rate Service", "ECG-based heart rate monitoring"},
			{"Battery Service", "Battery status"},
			{"Firmware Service", "Device firmware updates"},
		},
	},
}

// Vendors returns the seed-vendor allow-list used by Clear. Every vendor
// name that appears in the catalog is listed, so clearing removes exactly
// what seeding created.
func Vendors() []string {
	return []string{
		"Bluetooth SIG",
		"Apple Inc.",
		"Fitbit",
		"Nordic Semiconductor",
		"Xiaomi",
		"Texas Instruments",
		"Samsung",
		"Garmin",
		"Polar",
	}
}

// Catalog builds the full demonstration catalog in persistence order:
// all services first, then all characteristics, so parent lookups succeed
// when records are inserted sequentially.
func Catalog() []*attribute.Attribute {
	var services, characteristics []*attribute.Attribute
	for _, attr := range fixedEntries() {
		if attr.Type == attribute.TypeService {
			services = append(services, attr)
		} else {
			characteristics = append(characteristics, attr)
		}
	}

	for i, vendor := range generatedVendors {
		for j, svc := range vendor.services {
			serviceUUID, charUUID := generatedUUIDs(vendor.uuidPrefix, i, j)

			services = append(services, &attribute.Attribute{
				UUID:        serviceUUID,
				Vendor:      vendor.name,
				Model:       vendor.model,
				Description: svc[0],
				Type:        attribute.TypeService,
				Comment:     ptr(svc[1]),
			})
			characteristics = append(characteristics, &attribute.Attribute{
				UUID:        charUUID,
				Vendor:      vendor.name,
				Model:       vendor.model,
				Description: svc[0] + " Data",
				Type:        attribute.TypeCharacteristic,
				ServiceUUID: ptr(serviceUUID),
				CanRead:     true,
				CanNotify:   true,
				SampleData:  ptr("Sample data for " + svc[0]),
				Comment:     ptr("Main characteristic for " + svc[0]),
			})
		}
	}

	return append(services, characteristics...)
}

// generatedUUIDs derives the service and characteristic UUIDs for a
// vendor/service pair. Even vendor indexes use short codes, odd indexes use
// long hyphenated UUIDs keyed by both indexes, so repeated runs always
// produce the same identifiers.
func generatedUUIDs(prefix string, vendorIdx, serviceIdx int) (serviceUUID, charUUID string) {
	if vendorIdx%2 == 0 {
		serviceUUID = fmt.Sprintf("%s%02d", prefix, serviceIdx)
		charUUID = fmt.Sprintf("%s%02d1", prefix, serviceIdx)
		return serviceUUID, charUUID
	}
	serviceUUID = fmt.Sprintf("%s-%04d-4000-B000-%012d", prefix, serviceIdx, vendorIdx)
	charUUID = serviceUUID + "0001"
	return serviceUUID, charUUID
}

// fixedEntries returns the hand-curated part of the catalog: standard
// Bluetooth SIG codes plus real-world vendor examples.
func fixedEntries() []*attribute.Attribute {
	return []*attribute.Attribute{
		// Standard Bluetooth Services (16-bit UUIDs)
		{
			UUID:        "1800",
			Vendor:      "Bluetooth SIG",
			Model:       "Generic",
			Description: "Generic Access",
			Type:        attribute.TypeService,
			Comment:     ptr("Defines device name, appearance, and connection parameters"),
		},
		{
			UUID:        "2A00",
			Vendor:      "Bluetooth SIG",
			Model:       "Generic",
			Description: "Device Name",
			Type:        attribute.TypeCharacteristic,
			ServiceUUID: ptr("1800"),
			CanRead:     true,
			CanWrite:    true,
			SampleData:  ptr("Fitbit Charge 5"),
			Comment:     ptr("Human readable device name"),
		},

		// Apple Device (128-bit UUIDs)
		{
			UUID:        "9FA480E0-4967-4542-9390-D343DC5D04AE",
			Vendor:      "Apple Inc.",
			Model:       "AirPods Pro",
			Description: "Apple Notification Center Service",
			Type:        attribute.TypeService,
			Comment:     ptr("Handles iOS notifications"),
		},
		{
			UUID:        "9FBF120D-6301-42D9-8C58-25E699A21DBD",
			Vendor:      "Apple Inc.",
			Model:       "AirPods Pro",
			Description: "Notification Source",
			Type:        attribute.TypeCharacteristic,
			ServiceUUID: ptr("9FA480E0-4967-4542-9390-D343DC5D04AE"),
			CanNotify:   true,
			SampleData:  ptr("0x01020304"),
			Comment:     ptr("Notifies about incoming notifications"),
		},

		// Fitbit Device
		{
			UUID:        "ADABFB00-6E7D-4601-BDA2-BFFAA68956BA",
			Vendor:      "Fitbit",
			Model:       "Charge 5",
			Description: "Fitbit Service",
			Type:        attribute.TypeService,
			Comment:     ptr("Main Fitbit service for fitness tracking"),
		},
		{
			UUID:        "ADABFB01-6E7D-4601-BDA2-BFFAA68956BA",
			Vendor:      "Fitbit",
			Model:       "Charge 5",
			Description: "Heart Rate",
			Type:        attribute.TypeCharacteristic,
			ServiceUUID: ptr("ADABFB00-6E7D-4601-BDA2-BFFAA68956BA"),
			CanRead:     true,
			CanNotify:   true,
			SampleData:  ptr("72"),
			Comment:     ptr("Real-time heart rate monitoring"),
		},

		// Nordic Semiconductor DFU
		{
			UUID:        "FE59",
			Vendor:      "Nordic Semiconductor",
			Model:       "nRF52",
			Description: "Secure DFU Service",
			Type:        attribute.TypeService,
			Comment:     ptr("Device Firmware Update service"),
		},
		{
			UUID:        "8EC90001-F315-4F60-9FB8-838830DAEA50",
			Vendor:      "Nordic Semiconductor",
			Model:       "nRF52",
			Description: "DFU Control Point",
			Type:        attribute.TypeCharacteristic,
			ServiceUUID: ptr("FE59"),
			CanWrite:    true,
			CanNotify:   true,
			Comment:     ptr("Control point for firmware updates"),
		},

		// Xiaomi Mi Band
		{
			UUID:        "FEE0",
			Vendor:      "Xiaomi",
			Model:       "Mi Band 6",
			Description: "Mi Band Service",
			Type:        attribute.TypeService,
			Comment:     ptr("Main service for Mi Band device"),
		},
		{
			UUID:        "FEE1",
			Vendor:      "Xiaomi",
			Model:       "Mi Band 6",
			Description: "Activity Data",
			Type:        attribute.TypeCharacteristic,
			ServiceUUID: ptr("FEE0"),
			CanRead:     true,
			CanNotify:   true,
			SampleData:  ptr("Steps: 8547"),
			Comment:     ptr("Activity and fitness tracking data"),
		},

		// Texas Instruments Sensor Tag
		{
			UUID:        "F000AA00-0451-4000-B000-000000000000",
			Vendor:      "Texas Instruments",
			Model:       "CC2650 SensorTag",
			Description: "Temperature Service",
			Type:        attribute.TypeService,
			Comment:     ptr("IR and Ambient Temperature Sensing"),
		},
		{
			UUID:        "F000AA01-0451-4000-B000-000000000000",
			Vendor:      "Texas Instruments",
			Model:       "CC2650 SensorTag",
			Description: "Temperature Data",
			Type:        attribute.TypeCharacteristic,
			ServiceUUID: ptr("F000AA00-0451-4000-B000-000000000000"),
			CanRead:     true,
			CanNotify:   true,
			SampleData:  ptr("23.5"),
			Comment:     ptr("Temperature sensor readings"),
		},
	}
}

// ptr returns a pointer to s, for optional catalog fields.
func ptr(s string) *string {
	return &s
}
