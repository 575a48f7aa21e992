package main

import (
	"fmt"
	"math/rand"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/models"
)

const defaultListings = 50

var (
	locations = []string{
		"Beverly Hills, CA", "Manhattan, NY", "Miami Beach, FL", "Aspen, CO",
		"San Francisco, CA", "Seattle, WA", "Austin, TX", "Chicago, IL",
		"Los Angeles, CA", "Palm Springs, CA", "Hamptons, NY", "Malibu, CA",
	}
	adjectives = []string{
		"Luxury", "Modern", "Stunning", "Elegant", "Exclusive",
		"Private", "Contemporary", "Historic", "Grand", "Cozy",
	}
	sampleImages = []string{
		"https://images.unsplash.com/photo-1613490493576-7fde63acd811?q=80&w=2671&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?q=80&w=2670&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1600596542815-2a429b08e695?q=80&w=2668&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?q=80&w=2666&auto=format&fit=crop",
		"https://images.unsplash.com/photo-1600566753086-00f18fb6b3ea?q=80&w=2670&auto=format&fit=crop",
	}
	sampleFeatures = []string{"Pool", "Gym", "Spa", "Parking", "Security", "Smart Home"}
)

// generateProperties builds n available listings for owner. Types are drawn from the
// accepted enum and about one in five listings is featured.
func generateProperties(rng *rand.Rand, owner primitive.ObjectID, n int) []models.Property {
	properties := make([]models.Property, 0, n)
	for i := 0; i < n; i++ {
		kind := models.PropertyTypes[rng.Intn(len(models.PropertyTypes))]
		location := locations[rng.Intn(len(locations))]
		adjective := adjectives[rng.Intn(len(adjectives))]
		city := strings.SplitN(location, ",", 2)[0]

		beds := rng.Intn(8) + 1
		baths := rng.Intn(8) + 1

		properties = append(properties, models.Property{
			Title: fmt.Sprintf("%s %s in %s", adjective, strings.ToUpper(kind[:1])+kind[1:], city),
			Description: fmt.Sprintf(
				"Experience the epitome of luxury living in this %s %s located in the heart of %s. "+
					"This property features %d bedrooms, %d bathrooms, and boasts high-end finishes throughout.",
				strings.ToLower(adjective), kind, location, beds, baths),
			Price:     float64(rng.Intn(15000000-500000+1) + 500000),
			Location:  location,
			Type:      kind,
			Status:    models.StatusAvailable,
			Bedrooms:  beds,
			Bathrooms: baths,
			Area:      float64(rng.Intn(10000-1000+1) + 1000),
			Images:    pick(rng, sampleImages, 3+rng.Intn(3)),
			Features:  pick(rng, sampleFeatures, 4),
			Owner:     owner,
			Featured:  rng.Float64() < 0.2,
		})
	}
	return properties
}

func pick(rng *rand.Rand, from []string, n int) []string {
	shuffled := append([]string(nil), from...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
