package billing

// TierTable maps billing-provider product ids onto tiers. Aliases are retired
// product ids that are still honoured by the plan-change path.
type TierTable struct {
	products map[string]Tier
	aliases  map[string]Tier
}

// NewTierTable builds the table from the pro and premium product ids plus
// optional aliases (product id -> tier name). Aliases naming an unknown tier
// are ignored.
func NewTierTable(proProductID, premiumProductID string, aliases map[string]string) TierTable {
	t := TierTable{
		products: map[string]Tier{},
		aliases:  map[string]Tier{},
	}
	if proProductID != "" {
		t.products[proProductID] = TierPro
	}
	if premiumProductID != "" {
		t.products[premiumProductID] = TierPremium
	}
	for id, name := range aliases {
		if tier := Tier(name); tier.Valid() {
			t.aliases[id] = tier
		}
	}
	return t
}

// Tier returns the tier for productID, or TierFree if it is not in the table.
func (t TierTable) Tier(productID string) Tier {
	if tier, ok := t.products[productID]; ok {
		return tier
	}
	return TierFree
}

// TierOrAlias is Tier but also resolves historical alias product ids.
func (t TierTable) TierOrAlias(productID string) Tier {
	if tier, ok := t.products[productID]; ok {
		return tier
	}
	if tier, ok := t.aliases[productID]; ok {
		return tier
	}
	return TierFree
}
