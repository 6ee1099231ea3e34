// Package logparse extracts candidate BLE attributes from pasted
// device-interaction logs.
//
// The parser is a best-effort, line-oriented heuristic: a single forward
// pass over the text with one piece of scan state, the most recently
// discovered service. It produces draft attribute records; persistence is
// the caller's concern.
//
// Recognised line shapes:
//
//	Discovered 1800, 180F and 180A Services
//	Discovered 2A00 and Battery Level Characteristics
//	Setting Boolean true for Notifying Characteristic 2A37
//	Writing value 0x01 to 2A39 Characteristic
//	Updated Value of Characteristic 2A19 to 87
//
// Items that look like UUIDs (any hex digit or dash) are used directly;
// bare names receive a generated placeholder UUID and keep the name as the
// description. Property lines naming a characteristic that was never
// discovered are silently ignored.
package logparse
