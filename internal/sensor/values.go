package sensor

type Measurement struct {
	Name  string
	Units string
}

const (
	temperatureKey = "T"
	humidityKey    = "H"
	errorKey       = "ERR"
)

// Parameters lists the keys the serial bridge reports after a measurement.
var Parameters = map[string]Measurement{
	temperatureKey: {
		Name:  "Temperature",
		Units: "°C",
	},
	humidityKey: {
		Name:  "Relative Humidity",
		Units: "%",
	},
	errorKey: {
		Name:  "Error code",
		Units: "",
	},
	"ID": {
		Name:  "Sensor model",
		Units: "",
	},
}

var bridgeErrors = map[string]string{
	"1": "checksum mismatch",
	"2": "sensor did not respond",
	"3": "read too soon after previous measurement",
}

func describeError(code string) string {
	if reason, ok := bridgeErrors[code]; ok {
		return reason
	}
	return "unknown error"
}
