package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// SensorType identifies the kind of sensor a node presents. It is carried
// in the type byte of Presentation messages.
type SensorType uint8

const (
	SensorDoor                SensorType = 0
	SensorMotion              SensorType = 1
	SensorSmoke               SensorType = 2
	SensorBinary              SensorType = 3
	SensorLight               SensorType = 3 // alias of S_BINARY
	SensorDimmer              SensorType = 4
	SensorCover               SensorType = 5
	SensorTemp                SensorType = 6
	SensorHum                 SensorType = 7
	SensorBaro                SensorType = 8
	SensorWind                SensorType = 9
	SensorRain                SensorType = 10
	SensorUV                  SensorType = 11
	SensorWeight              SensorType = 12
	SensorPower               SensorType = 13
	SensorHeater              SensorType = 14
	SensorDistance            SensorType = 15
	SensorLightLevel          SensorType = 16
	SensorArduinoNode         SensorType = 17
	SensorArduinoRepeaterNode SensorType = 18
	SensorLock                SensorType = 19
	SensorIR                  SensorType = 20
	SensorWater               SensorType = 21
	SensorAirQuality          SensorType = 22
	SensorCustom              SensorType = 23
	SensorDust                SensorType = 24
	SensorSceneController     SensorType = 25
	SensorRGBLight            SensorType = 26
	SensorRGBWLight           SensorType = 27
	SensorColorSensor         SensorType = 28
	SensorHVAC                SensorType = 29
	SensorMultimeter          SensorType = 30
	SensorSprinkler           SensorType = 31
	SensorWaterLeak           SensorType = 32
	SensorSound               SensorType = 33
	SensorVibration           SensorType = 34
	SensorMoisture            SensorType = 35
	SensorInfo                SensorType = 36
	SensorGas                 SensorType = 37
	SensorGPS                 SensorType = 38
	SensorWaterQuality        SensorType = 39
)

var sensorTypeNames = [...]string{
	"S_DOOR",
	"S_MOTION",
	"S_SMOKE",
	"S_BINARY",
	"S_DIMMER",
	"S_COVER",
	"S_TEMP",
	"S_HUM",
	"S_BARO",
	"S_WIND",
	"S_RAIN",
	"S_UV",
	"S_WEIGHT",
	"S_POWER",
	"S_HEATER",
	"S_DISTANCE",
	"S_LIGHT_LEVEL",
	"S_ARDUINO_NODE",
	"S_ARDUINO_REPEATER_NODE",
	"S_LOCK",
	"S_IR",
	"S_WATER",
	"S_AIR_QUALITY",
	"S_CUSTOM",
	"S_DUST",
	"S_SCENE_CONTROLLER",
	"S_RGB_LIGHT",
	"S_RGBW_LIGHT",
	"S_COLOR_SENSOR",
	"S_HVAC",
	"S_MULTIMETER",
	"S_SPRINKLER",
	"S_WATER_LEAK",
	"S_SOUND",
	"S_VIBRATION",
	"S_MOISTURE",
	"S_INFO",
	"S_GAS",
	"S_GPS",
	"S_WATER_QUALITY",
}

// VariableType identifies a sensor variable. It is carried in the type byte
// of Set and Req messages.
type VariableType uint8

const (
	VarTemp             VariableType = 0
	VarHum              VariableType = 1
	VarStatus           VariableType = 2
	VarLight            VariableType = 2 // alias of V_STATUS
	VarPercentage       VariableType = 3
	VarDimmer           VariableType = 3 // alias of V_PERCENTAGE
	VarPressure         VariableType = 4
	VarForecast         VariableType = 5
	VarRain             VariableType = 6
	VarRainRate         VariableType = 7
	VarWind             VariableType = 8
	VarGust             VariableType = 9
	VarDirection        VariableType = 10
	VarUV               VariableType = 11
	VarWeight           VariableType = 12
	VarDistance         VariableType = 13
	VarImpedance        VariableType = 14
	VarArmed            VariableType = 15
	VarTripped          VariableType = 16
	VarWatt             VariableType = 17
	VarKWh              VariableType = 18
	VarSceneOn          VariableType = 19
	VarSceneOff         VariableType = 20
	VarHVACFlowState    VariableType = 21
	VarHeater           VariableType = 21 // alias of V_HVAC_FLOW_STATE
	VarHVACSpeed        VariableType = 22
	VarLightLevel       VariableType = 23
	VarVar1             VariableType = 24
	VarVar2             VariableType = 25
	VarVar3             VariableType = 26
	VarVar4             VariableType = 27
	VarVar5             VariableType = 28
	VarUp               VariableType = 29
	VarDown             VariableType = 30
	VarStop             VariableType = 31
	VarIRSend           VariableType = 32
	VarIRReceive        VariableType = 33
	VarFlow             VariableType = 34
	VarVolume           VariableType = 35
	VarLockStatus       VariableType = 36
	VarLevel            VariableType = 37
	VarVoltage          VariableType = 38
	VarCurrent          VariableType = 39
	VarRGB              VariableType = 40
	VarRGBW             VariableType = 41
	VarID               VariableType = 42
	VarUnitPrefix       VariableType = 43
	VarHVACSetpointCool VariableType = 44
	VarHVACSetpointHeat VariableType = 45
	VarHVACFlowMode     VariableType = 46
	VarText             VariableType = 47
	VarCustom           VariableType = 48
	VarPosition         VariableType = 49
	VarIRRecord         VariableType = 50
	VarPH               VariableType = 51
	VarORP              VariableType = 52
	VarEC               VariableType = 53
)

var variableTypeNames = [...]string{
	"V_TEMP",
	"V_HUM",
	"V_STATUS",
	"V_PERCENTAGE",
	"V_PRESSURE",
	"V_FORECAST",
	"V_RAIN",
	"V_RAINRATE",
	"V_WIND",
	"V_GUST",
	"V_DIRECTION",
	"V_UV",
	"V_WEIGHT",
	"V_DISTANCE",
	"V_IMPEDANCE",
	"V_ARMED",
	"V_TRIPPED",
	"V_WATT",
	"V_KWH",
	"V_SCENE_ON",
	"V_SCENE_OFF",
	"V_HVAC_FLOW_STATE",
	"V_HVAC_SPEED",
	"V_LIGHT_LEVEL",
	"V_VAR1",
	"V_VAR2",
	"V_VAR3",
	"V_VAR4",
	"V_VAR5",
	"V_UP",
	"V_DOWN",
	"V_STOP",
	"V_IR_SEND",
	"V_IR_RECEIVE",
	"V_FLOW",
	"V_VOLUME",
	"V_LOCK_STATUS",
	"V_LEVEL",
	"V_VOLTAGE",
	"V_CURRENT",
	"V_RGB",
	"V_RGBW",
	"V_ID",
	"V_UNIT_PREFIX",
	"V_HVAC_SETPOINT_COOL",
	"V_HVAC_SETPOINT_HEAT",
	"V_HVAC_FLOW_MODE",
	"V_TEXT",
	"V_CUSTOM",
	"V_POSITION",
	"V_IR_RECORD",
	"V_PH",
	"V_ORP",
	"V_EC",
}

// InternalType identifies a library-internal message. It is carried in the
// type byte of Internal messages.
type InternalType uint8

const (
	InternalBatteryLevel        InternalType = 0
	InternalTime                InternalType = 1
	InternalVersion             InternalType = 2
	InternalIDRequest           InternalType = 3
	InternalIDResponse          InternalType = 4
	InternalInclusionMode       InternalType = 5
	InternalConfig              InternalType = 6
	InternalFindParent          InternalType = 7
	InternalFindParentResponse  InternalType = 8
	InternalLogMessage          InternalType = 9
	InternalChildren            InternalType = 10
	InternalSketchName          InternalType = 11
	InternalSketchVersion       InternalType = 12
	InternalReboot              InternalType = 13
	InternalGatewayReady        InternalType = 14
	InternalSigningPresentation InternalType = 15
	InternalNonceRequest        InternalType = 16
	InternalNonceResponse       InternalType = 17
	InternalHeartbeat           InternalType = 18
	InternalPresentation        InternalType = 19
	InternalDiscover            InternalType = 20
	InternalDiscoverResponse    InternalType = 21
	InternalHeartbeatResponse   InternalType = 22
	InternalLocked              InternalType = 23
	InternalPing                InternalType = 24
	InternalPong                InternalType = 25
	InternalRegisterRequest     InternalType = 26
	InternalRegisterResponse    InternalType = 27
	InternalDebug               InternalType = 28
)

var internalTypeNames = [...]string{
	"I_BATTERY_LEVEL",
	"I_TIME",
	"I_VERSION",
	"I_ID_REQUEST",
	"I_ID_RESPONSE",
	"I_INCLUSION_MODE",
	"I_CONFIG",
	"I_FIND_PARENT",
	"I_FIND_PARENT_RESPONSE",
	"I_LOG_MESSAGE",
	"I_CHILDREN",
	"I_SKETCH_NAME",
	"I_SKETCH_VERSION",
	"I_REBOOT",
	"I_GATEWAY_READY",
	"I_SIGNING_PRESENTATION",
	"I_NONCE_REQUEST",
	"I_NONCE_RESPONSE",
	"I_HEARTBEAT",
	"I_PRESENTATION",
	"I_DISCOVER",
	"I_DISCOVER_RESPONSE",
	"I_HEARTBEAT_RESPONSE",
	"I_LOCKED",
	"I_PING",
	"I_PONG",
	"I_REGISTER_REQUEST",
	"I_REGISTER_RESPONSE",
	"I_DEBUG",
}

// StreamType identifies a data stream. It is carried in the type byte of
// Stream messages.
type StreamType uint8

const (
	StreamFirmwareConfigRequest  StreamType = 0
	StreamFirmwareConfigResponse StreamType = 1
	StreamFirmwareRequest        StreamType = 2
	StreamFirmwareResponse       StreamType = 3
	StreamSound                  StreamType = 4
	StreamImage                  StreamType = 5
)

var streamTypeNames = [...]string{
	"ST_FIRMWARE_CONFIG_REQUEST",
	"ST_FIRMWARE_CONFIG_RESPONSE",
	"ST_FIRMWARE_REQUEST",
	"ST_FIRMWARE_RESPONSE",
	"ST_SOUND",
	"ST_IMAGE",
}

// Deprecated names that share a code with a current name.
var typeAliases = map[string]uint8{
	"S_LIGHT":  uint8(SensorLight),
	"V_LIGHT":  uint8(VarLight),
	"V_DIMMER": uint8(VarDimmer),
	"V_HEATER": uint8(VarHeater),
}

func nameOf(names []string, code uint8) string {
	if int(code) < len(names) {
		return names[code]
	}
	return "UNKNOWN"
}

// lookupName resolves a symbolic name, an alias or a decimal code against a
// name table. The prefix is added when the caller omitted it.
func lookupName(names []string, prefix, s string) (uint8, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, prefix) {
		name = prefix + name
	}
	for i, n := range names {
		if n == name {
			return uint8(i), true
		}
	}
	if code, ok := typeAliases[name]; ok {
		return code, true
	}
	if n, ok := parseCode(s); ok && int(n) < len(names) {
		return n, true
	}
	return 0, false
}

func parseCode(s string) (uint8, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

// String returns the sensor type name.
func (s SensorType) String() string { return nameOf(sensorTypeNames[:], uint8(s)) }

// String returns the variable type name.
func (v VariableType) String() string { return nameOf(variableTypeNames[:], uint8(v)) }

// String returns the internal type name.
func (i InternalType) String() string { return nameOf(internalTypeNames[:], uint8(i)) }

// String returns the stream type name.
func (s StreamType) String() string { return nameOf(streamTypeNames[:], uint8(s)) }

// ParseSensorType parses "S_TEMP", "temp" or "6".
func ParseSensorType(s string) (SensorType, error) {
	if n, ok := lookupName(sensorTypeNames[:], "S_", s); ok {
		return SensorType(n), nil
	}
	return 0, fmt.Errorf("invalid sensor type: %s", s)
}

// ParseVariableType parses "V_TEMP", "temp" or "0".
func ParseVariableType(s string) (VariableType, error) {
	if n, ok := lookupName(variableTypeNames[:], "V_", s); ok {
		return VariableType(n), nil
	}
	return 0, fmt.Errorf("invalid variable type: %s", s)
}

// ParseInternalType parses "I_TIME", "time" or "1".
func ParseInternalType(s string) (InternalType, error) {
	if n, ok := lookupName(internalTypeNames[:], "I_", s); ok {
		return InternalType(n), nil
	}
	return 0, fmt.Errorf("invalid internal type: %s", s)
}

// ParseStreamType parses "ST_SOUND", "sound" or "4".
func ParseStreamType(s string) (StreamType, error) {
	if n, ok := lookupName(streamTypeNames[:], "ST_", s); ok {
		return StreamType(n), nil
	}
	return 0, fmt.Errorf("invalid stream type: %s", s)
}

// TypeName returns the name of a type byte as interpreted under cmd.
// The same code means different things under different commands.
func TypeName(cmd Command, typ uint8) string {
	switch cmd {
	case CommandPresentation:
		return SensorType(typ).String()
	case CommandSet, CommandReq:
		return VariableType(typ).String()
	case CommandInternal:
		return InternalType(typ).String()
	case CommandStream:
		return StreamType(typ).String()
	default:
		return "UNKNOWN"
	}
}

// ParseType parses a type name or code relative to cmd.
func ParseType(cmd Command, s string) (uint8, error) {
	switch cmd {
	case CommandPresentation:
		t, err := ParseSensorType(s)
		return uint8(t), err
	case CommandSet, CommandReq:
		t, err := ParseVariableType(s)
		return uint8(t), err
	case CommandInternal:
		t, err := ParseInternalType(s)
		return uint8(t), err
	case CommandStream:
		t, err := ParseStreamType(s)
		return uint8(t), err
	default:
		return 0, fmt.Errorf("invalid command: %d", cmd)
	}
}
