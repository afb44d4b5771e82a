package classify

import "strings"

const (
	DefaultIcon  = "❓"
	DefaultColor = "#4a90e2"
)

// TypeMetadata is how an asset type is presented
type TypeMetadata struct {
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	DisplayName string `json:"display_name"`
}

// knownTypes is read-only after package init. Any field left empty resolves
// to its default in MetadataFor.
var knownTypes = map[string]TypeMetadata{
	"PVAsset":                       {Icon: "☀️", Color: "#ff9500", DisplayName: "PV Systems"},
	"ElectricityProducerSolarAsset": {Icon: "☀️", Color: "#ff9500", DisplayName: "Solar Panels"},
	"ElectricityProducerWindAsset":  {Icon: "🌪️", Color: "#00bcd4", DisplayName: "Wind Turbines"},
	"ElectricityConsumerAsset":      {Icon: "⚡", Color: "#4a90e2", DisplayName: "EV Chargers"},
	"EVChargingStationAsset":        {Icon: "🔌", Color: "#2196f3", DisplayName: "Charging Stations"},
	"ElectricVehicleAsset":          {Icon: "🚗", Color: "#1976d2", DisplayName: "Electric Vehicles"},
	"BatteryAsset":                  {Icon: "🔋", Color: "#4caf50", DisplayName: "Batteries"},
	"ElectricityStorageAsset":       {Icon: "🔋", Color: "#388e3c", DisplayName: "Energy Storage"},
	"HeatPumpAsset":                 {Icon: "🌡️", Color: "#9c27b0", DisplayName: "Heat Pumps"},
	"WeatherAsset":                  {Icon: "🌤️", Color: "#607d8b", DisplayName: "Weather Stations"},

	"GroupAsset":     {Icon: "📁"},
	"ConsoleAsset":   {Icon: "💻"},
	"HTTPAgentAsset": {Icon: "🌐"},
	"MQTTAgentAsset": {Icon: "📡"},
	"ThingAsset":     {Icon: "🔧"},
}

// MetadataFor resolves icon, color and display name for an asset type. Each
// field falls back independently: DefaultIcon, DefaultColor, and a name
// derived from the type name.
func MetadataFor(assetType string) TypeMetadata {
	md := knownTypes[assetType]
	if md.Icon == "" {
		md.Icon = DefaultIcon
	}
	if md.Color == "" {
		md.Color = DefaultColor
	}
	if md.DisplayName == "" {
		md.DisplayName = DeriveDisplayName(assetType)
	}
	return md
}

// IsKnown reports whether the type has any explicit metadata
func IsKnown(assetType string) bool {
	_, ok := knownTypes[assetType]
	return ok
}

// DeriveDisplayName turns a type name into words: the trailing "Asset" is
// dropped and a space goes before every upper-case letter, so
// "HeatPumpAsset" becomes "Heat Pump" and "EVChargerAsset" becomes
// "E V Charger". A name that is nothing but the suffix yields "".
func DeriveDisplayName(assetType string) string {
	base := strings.TrimSuffix(assetType, "Asset")

	var b strings.Builder
	for _, r := range base {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
