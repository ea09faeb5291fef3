package domain

// MenuItem is a dish offered by a restaurant.
type MenuItem struct {
	Name  string
	Price float64
}

// Menu is a full snapshot of a restaurant menu: item name -> price.
type Menu map[string]float64

// Clone returns an independent copy of the snapshot.
func (m Menu) Clone() Menu {
	out := make(Menu, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
