// Package point turns aggregated metric values into addressed Zabbix data
// points, governed by per-category publish toggles.
package point

// Point is one addressed sample for the Zabbix trapper. Immutable once
// created; the flat list of points for a flush is the transport payload.
type Point struct {
	Host  string  `json:"host"`
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}
