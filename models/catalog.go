package models

import "encoding/json"

// BranchDayKeys are the per-day hours fields of a public branch, Monday first.
var BranchDayKeys = [7]string{
	"horario_lunes",
	"horario_martes",
	"horario_miercoles",
	"horario_jueves",
	"horario_viernes",
	"horario_sabado",
	"horario_domingo",
}

// Branch is a public branch (sucursal) of the company.
type Branch struct {
	Name    string    `json:"nombre"`
	Address string    `json:"direccion"`
	MapLink string    `json:"enlace_ubicacion"`
	Hours   [7]string `json:"-"` // filled from BranchDayKeys
}

// Product is a catalogue item: a per-unit service or a fixed-duration package.
type Product struct {
	Name          string `json:"nombre"`
	UnitPrice     Amount `json:"precio_unitario"`
	Unit          string `json:"unidad_medida"` // "Hora", "Día"...
	Description   string `json:"descripcion"`   // may contain HTML
	Type          string `json:"tipo_producto"` // "Servicio" or "Paquete"
	VisiblePublic Flag   `json:"visible_publico"`
	Quantity      Amount `json:"cantidad"` // package duration in Unit
	Total         Amount `json:"total"`    // package price
}

func (b *Branch) UnmarshalJSON(data []byte) error {
	type plain Branch
	var base plain
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for i, key := range BranchDayKeys {
		if s, ok := fields[key].(string); ok {
			base.Hours[i] = s
		}
	}
	*b = Branch(base)
	return nil
}
