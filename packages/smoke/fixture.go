package smoke

// PropertyLocation is the nested location object of a listing payload.
type PropertyLocation struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Area    string `json:"area"`
	Pincode string `json:"pincode"`
}

// PropertyPayload is the request body for the creation case.
type PropertyPayload struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	PricePerNight float64          `json:"price_per_night"`
	PropertyType  string           `json:"property_type"`
	Location      PropertyLocation `json:"location"`
	Images        []string         `json:"images"`
	Amenities     []string         `json:"amenities"`
	MaxGuests     int              `json:"max_guests"`
	Bedrooms      int              `json:"bedrooms"`
	Bathrooms     int              `json:"bathrooms"`
	HostName      string           `json:"host_name"`
}

// DefaultPropertyPayload returns the fixed fixture used by the creation case.
func DefaultPropertyPayload() *PropertyPayload {
	return &PropertyPayload{
		Title:         "Test Property",
		Description:   "A test property for API testing",
		PricePerNight: 2000,
		PropertyType:  "apartment",
		Location: PropertyLocation{
			City:    "Test City",
			State:   "Test State",
			Area:    "Test Area",
			Pincode: "123456",
		},
		Images:    []string{"https://example.com/image1.jpg"},
		Amenities: []string{"WiFi", "AC"},
		MaxGuests: 2,
		Bedrooms:  1,
		Bathrooms: 1,
		HostName:  "Test Host",
	}
}
