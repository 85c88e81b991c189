package service

import (
	"math"
	"sort"
	"strings"

	"github.com/postdost/postdost/internal/model"
)

// DirectoryService serves the static local-business directory used by
// the explore and map views.
type DirectoryService struct {
	businesses []model.Business
}

// NewDirectoryService creates a DirectoryService over the built-in
// Chennai directory.
func NewDirectoryService() *DirectoryService {
	return &DirectoryService{businesses: chennaiBusinesses}
}

// List returns all businesses in the directory.
func (s *DirectoryService) List() []model.Business {
	out := make([]model.Business, len(s.businesses))
	copy(out, s.businesses)
	return out
}

// Search returns businesses whose name, category, or address contains
// the query, case-insensitively. An empty query returns everything.
func (s *DirectoryService) Search(query string) []model.Business {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}

	var out []model.Business
	for _, b := range s.businesses {
		if strings.Contains(strings.ToLower(b.Name), q) ||
			strings.Contains(strings.ToLower(b.Category), q) ||
			strings.Contains(strings.ToLower(b.Address), q) {
			out = append(out, b)
		}
	}
	return out
}

// BusinessWithDistance pairs a directory entry with its distance from
// a reference point, in kilometers.
type BusinessWithDistance struct {
	model.Business
	DistanceKm float64 `json:"distanceKm"`
}

// Nearby returns up to limit businesses ordered by distance from the
// given coordinates. limit <= 0 returns the full directory.
func (s *DirectoryService) Nearby(lat, lng float64, limit int) []BusinessWithDistance {
	out := make([]BusinessWithDistance, 0, len(s.businesses))
	for _, b := range s.businesses {
		out = append(out, BusinessWithDistance{
			Business:   b,
			DistanceKm: haversineKm(lat, lng, b.Latitude, b.Longitude),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// earthRadiusKm is the mean radius used by the haversine formula.
const earthRadiusKm = 6371

// haversineKm computes the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// chennaiBusinesses is the static directory.
var chennaiBusinesses = []model.Business{
	{ID: "1", Name: "Saravana Bhavan", Address: "GST Road, Tambaram, Chennai, Tamil Nadu 600045", Category: "Restaurant", Latitude: 12.9249, Longitude: 80.1000},
	{ID: "2", Name: "Apollo Hospitals", Address: "Vandalur Main Road, Kundrathur, Chennai, Tamil Nadu 600069", Category: "Healthcare", Latitude: 12.8500, Longitude: 80.0800},
	{ID: "3", Name: "Express Avenue Mall", Address: "Royapettah, Chennai, Tamil Nadu 600014", Category: "Shopping Mall", Latitude: 13.0569, Longitude: 80.2600},
	{ID: "4", Name: "Phoenix MarketCity", Address: "Velachery Main Road, Chennai, Tamil Nadu 600042", Category: "Shopping Mall", Latitude: 12.9935, Longitude: 80.2207},
	{ID: "5", Name: "Hotel Rainforest", Address: "ECR Road, Chennai, Tamil Nadu 600119", Category: "Hotel", Latitude: 12.8386, Longitude: 80.2707},
	{ID: "6", Name: "Marina Beach", Address: "Marina Beach Road, Chennai, Tamil Nadu 600013", Category: "Tourist Attraction", Latitude: 13.0487, Longitude: 80.2825},
	{ID: "7", Name: "Infosys Chennai", Address: "Sholinganallur, Chennai, Tamil Nadu 600119", Category: "IT Company", Latitude: 12.9006, Longitude: 80.2209},
	{ID: "8", Name: "Spencer Plaza", Address: "Anna Salai, Chennai, Tamil Nadu 600002", Category: "Shopping Mall", Latitude: 13.0596, Longitude: 80.2606},
	{ID: "9", Name: "Chennai Central Station", Address: "Wall Tax Road, Chennai, Tamil Nadu 600003", Category: "Transportation", Latitude: 13.0827, Longitude: 80.2785},
	{ID: "10", Name: "Kapaleeshwarar Temple", Address: "Mylapore, Chennai, Tamil Nadu 600004", Category: "Religious Site", Latitude: 13.0339, Longitude: 80.2619},
	{ID: "11", Name: "TCS Chennai", Address: "Siruseri IT Park, Chennai, Tamil Nadu 600130", Category: "IT Company", Latitude: 12.8253, Longitude: 80.2281},
	{ID: "12", Name: "VGP Universal Kingdom", Address: "ECR, Chennai, Tamil Nadu 600041", Category: "Amusement Park", Latitude: 12.8247, Longitude: 80.2471},
	{ID: "13", Name: "Chennai Trade Centre", Address: "Nandambakkam, Chennai, Tamil Nadu 600089", Category: "Convention Center", Latitude: 13.0067, Longitude: 80.1709},
}
