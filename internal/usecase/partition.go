package usecase

import "github.com/kmeans4/phenofarm/internal/domain/model"

// PartitionCart splits a flat cart into per-vendor groups. Group order
// follows each seller's first appearance in the cart and per-seller line
// order is preserved, so repeated checkouts of the same cart build orders
// deterministically. An empty cart yields no groups.
func PartitionCart(lines []model.CartLine) []model.VendorGroup {
	if len(lines) == 0 {
		return nil
	}

	index := make(map[string]int, len(lines))
	groups := make([]model.VendorGroup, 0, len(lines))
	for _, line := range lines {
		key := line.SellerStoreID.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.VendorGroup{SellerStoreID: line.SellerStoreID})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	return groups
}
