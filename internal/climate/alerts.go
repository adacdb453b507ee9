package climate

// alerts is the fixed content of the alerts popup. It is not derived from
// stored readings.
var alerts = []Alert{
	{Icon: "🔥", Message: "Temperatura alta en Centro de Lima"},
	{Icon: "💧", Message: "Humedad baja en Miraflores"},
	{Icon: "🌡️", Message: "Variación significativa en Callao"},
}

// Alerts returns a copy of the alert list.
func Alerts() []Alert {
	out := make([]Alert, len(alerts))
	copy(out, alerts)
	return out
}
