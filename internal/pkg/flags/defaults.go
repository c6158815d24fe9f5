// internal/pkg/flags/defaults.go
package flags

// Site flag names. Route guards reference these.
const (
	FlagStore             = "store"
	FlagCheckout          = "checkout"
	FlagShippingEstimates = "shipping-estimates"
	FlagEpisodes          = "episodes"
	FlagPodcast           = "podcast"
	FlagSponsorship       = "sponsorship"
	FlagHolidayBanner     = "holiday-banner"
)

func intPtr(v int) *int { return &v }

// Defaults is the hard-coded flag registry the site ships with.
func Defaults() map[string]Flag {
	return map[string]Flag{
		FlagStore: {
			Name:        FlagStore,
			Description: "Merch storefront pages and product API",
			Enabled:     true,
		},
		FlagCheckout: {
			Name:        FlagCheckout,
			Description: "Stripe checkout flow",
			Enabled:     true,
		},
		FlagShippingEstimates: {
			Name:              FlagShippingEstimates,
			Description:       "Live Printful shipping rate estimates in the cart",
			Enabled:           true,
			RolloutPercentage: intPtr(100),
		},
		FlagEpisodes: {
			Name:        FlagEpisodes,
			Description: "Episode listings from YouTube playlists",
			Enabled:     true,
		},
		FlagPodcast: {
			Name:        FlagPodcast,
			Description: "Podcast page backed by the RSS feed",
			Enabled:     true,
		},
		FlagSponsorship: {
			Name:        FlagSponsorship,
			Description: "Sponsorship inquiry form",
			Enabled:     true,
		},
		FlagHolidayBanner: {
			Name:        FlagHolidayBanner,
			Description: "Seasonal storefront banner",
			Enabled:     false,
		},
	}
}

// EnvironmentOverrides adjusts flags per deployment environment. Entries
// replace the default flag wholesale for that environment.
func EnvironmentOverrides() map[string]map[string]Flag {
	return map[string]map[string]Flag{
		"development": {
			FlagHolidayBanner: {
				Name:        FlagHolidayBanner,
				Description: "Seasonal storefront banner",
				Enabled:     true,
			},
		},
		"staging": {
			FlagCheckout: {
				Name:              FlagCheckout,
				Description:       "Stripe checkout flow",
				Enabled:           true,
				RolloutPercentage: intPtr(50),
			},
		},
	}
}
