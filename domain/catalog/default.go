package catalog

// Default returns the compiled-in reference tables.
func Default() Catalog {
	return Catalog{
		Applications: []Application{
			{ID: "netflix", Name: "Netflix", PenaltyRate: 1},
		},
		Packages: []Package{
			{
				ID:                    "1p1u_month",
				AppID:                 "netflix",
				Name:                  "1p1u - 1 Bulan (37.000)",
				Price:                 37000,
				MaxDevicesPerCustomer: 1,
			},
			{
				ID:                    "1p1u_week",
				AppID:                 "netflix",
				Name:                  "1p1u - 1 Minggu (12.000)",
				Price:                 12000,
				MaxDevicesPerCustomer: 1,
			},
			{
				ID:                    "1p2u",
				AppID:                 "netflix",
				Name:                  "1p2u - 10 Customer (23.000 / cust)",
				Price:                 23000,
				MaxDevicesPerCustomer: 1,
				MaxCustomers:          10,
			},
		},
	}
}
