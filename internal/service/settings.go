package service

// Calculator settings: the target amount, its preset, and the running
// price list. All plain document fields persisted with everything else.

// SetTarget stores the target amount and preset. Presets "99" and "120"
// force the matching target; anything else is a custom amount.
func (s *DocumentService) SetTarget(target, preset string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if preset == "99" || preset == "120" {
		target = preset
	}
	if target == "" {
		return
	}
	s.doc.Settings.Target = target
	s.doc.Settings.TargetPreset = preset
	s.scheduleSave()
}

// AddPrice appends a price to the running list.
func (s *DocumentService) AddPrice(price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Settings.Prices = append(s.doc.Settings.Prices, price)
	s.scheduleSave()
}

// RemovePrice drops the price at the index. Out of range is a no-op.
func (s *DocumentService) RemovePrice(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Settings.Prices) {
		return
	}
	s.doc.Settings.Prices = append(s.doc.Settings.Prices[:index], s.doc.Settings.Prices[index+1:]...)
	s.scheduleSave()
}

// ClearPrices empties the price list.
func (s *DocumentService) ClearPrices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Settings.Prices = []float64{}
	s.scheduleSave()
}
