package classify

// Category groups asset types by their role in the asset model
type Category int

const (
	// CategoryDevice covers every type that is not infrastructure: physical
	// devices and any type this package does not know about.
	CategoryDevice Category = iota
	CategorySystem
	CategoryGroup
	CategoryAgent
)

func (c Category) String() string {
	switch c {
	case CategorySystem:
		return "system"
	case CategoryGroup:
		return "group"
	case CategoryAgent:
		return "agent"
	default:
		return "device"
	}
}

// CategoryOf returns the category of an asset type name
func CategoryOf(assetType string) Category {
	switch assetType {
	case "ConsoleAsset", "RuleEngineAsset", "NotificationAsset", "UserAsset", "RealmAsset":
		return CategorySystem
	case "GroupAsset", "BuildingAsset", "FloorAsset", "RoomAsset", "CityAsset", "AreaAsset":
		return CategoryGroup
	case "HTTPAgentAsset", "MQTTAgentAsset", "TCPAgentAsset", "UDPAgentAsset",
		"ModbusAgentAsset", "KNXAgentAsset", "ZWaveAgentAsset", "ZigbeeAgentAsset",
		"BluetoothAgentAsset", "VelbusBridgeAsset", "SimulatorAgentAsset":
		return CategoryAgent
	}
	return CategoryDevice
}

// TypesIn lists the asset types of a category. CategoryDevice is open-ended
// and returns nil.
func TypesIn(c Category) []string {
	switch c {
	case CategorySystem:
		return []string{"ConsoleAsset", "RuleEngineAsset", "NotificationAsset", "UserAsset", "RealmAsset"}
	case CategoryGroup:
		return []string{"GroupAsset", "BuildingAsset", "FloorAsset", "RoomAsset", "CityAsset", "AreaAsset"}
	case CategoryAgent:
		return []string{
			"HTTPAgentAsset", "MQTTAgentAsset", "TCPAgentAsset", "UDPAgentAsset",
			"ModbusAgentAsset", "KNXAgentAsset", "ZWaveAgentAsset", "ZigbeeAgentAsset",
			"BluetoothAgentAsset", "VelbusBridgeAsset", "SimulatorAgentAsset",
		}
	}
	return nil
}
