package domain

import (
	"fmt"
	"strings"
)

// Variable is the user's choice of what to chart.
type Variable int

const (
	VariableTemperature Variable = iota
	VariableCO2Emissions
	VariableSeaLevel
	VariablePrecipitation
	VariableHumidity
	VariableWindSpeed
)

// Variables lists every selectable variable in selector order.
var Variables = []Variable{
	VariableTemperature,
	VariableCO2Emissions,
	VariableSeaLevel,
	VariablePrecipitation,
	VariableHumidity,
	VariableWindSpeed,
}

// ChartKind is the chart type drawn for a variable.
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartScatter ChartKind = "scatter"
	ChartArea    ChartKind = "area"
)

// ChartSpec describes how to draw a variable: chart type, plotted field
// and labels. The x axis is always Year.
type ChartSpec struct {
	Kind   ChartKind
	Field  Field
	Header string
	Title  string
	YLabel string
}

// Label returns the selector text.
func (v Variable) Label() string {
	switch v {
	case VariableTemperature:
		return "Temperature"
	case VariableCO2Emissions:
		return "CO2 Emissions"
	case VariableSeaLevel:
		return "Sea Level"
	case VariablePrecipitation:
		return "Precipitation"
	case VariableHumidity:
		return "Humidity"
	case VariableWindSpeed:
		return "Wind Speed"
	}
	return fmt.Sprintf("Variable(%d)", int(v))
}

// Slug returns the URL form of the label, e.g. "co2-emissions".
func (v Variable) Slug() string {
	return strings.ReplaceAll(strings.ToLower(v.Label()), " ", "-")
}

func (v Variable) String() string { return v.Label() }

// Chart maps the variable to its chart. The switch is exhaustive; adding a
// Variable without a case here panics on first render.
func (v Variable) Chart() ChartSpec {
	switch v {
	case VariableTemperature:
		return ChartSpec{
			Kind:   ChartLine,
			Field:  FieldTemperature,
			Header: "Temperature Trends 🌡️",
			Title:  "Global Temperature Trends",
			YLabel: "Temperature (°C)",
		}
	case VariableCO2Emissions:
		return ChartSpec{
			Kind:   ChartBar,
			Field:  FieldCO2Emissions,
			Header: "CO₂ Emissions 📈",
			Title:  "CO₂ Emissions Over the Years",
			YLabel: "CO₂ Emissions (ppm)",
		}
	case VariableSeaLevel:
		return ChartSpec{
			Kind:   ChartScatter,
			Field:  FieldSeaLevelRise,
			Header: "Sea Level Rise 🌊",
			Title:  "Sea Level Rise Trends",
			YLabel: "Sea Level Rise (mm)",
		}
	case VariablePrecipitation:
		return ChartSpec{
			Kind:   ChartArea,
			Field:  FieldPrecipitation,
			Header: "Precipitation Trends 🌧️",
			Title:  "Global Precipitation Trends",
			YLabel: "Precipitation (mm)",
		}
	case VariableHumidity:
		return ChartSpec{
			Kind:   ChartLine,
			Field:  FieldHumidity,
			Header: "Humidity Trends 💧",
			Title:  "Global Humidity Trends",
			YLabel: "Humidity (%)",
		}
	case VariableWindSpeed:
		return ChartSpec{
			Kind:   ChartLine,
			Field:  FieldWindSpeed,
			Header: "Wind Speed Trends 🌬️",
			Title:  "Global Wind Speed Trends",
			YLabel: "Wind Speed (km/h)",
		}
	}
	panic(fmt.Sprintf("domain: no chart for %v", v))
}

// ParseVariable accepts a selector label ("CO2 Emissions") or its slug
// ("co2-emissions"), case-insensitively. Empty input selects Temperature.
func ParseVariable(s string) (Variable, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VariableTemperature, nil
	}
	for _, v := range Variables {
		if strings.EqualFold(s, v.Label()) || strings.EqualFold(s, v.Slug()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, s)
}
