package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DashboardType identifies which dashboard view a record backs. There is at
// most one Dashboard document per type.
type DashboardType string

const (
	DashboardAnalytics DashboardType = "analytics"
	DashboardAgent     DashboardType = "agent"
	DashboardCustomer  DashboardType = "customer"
	DashboardProperty  DashboardType = "property"
)

// Valid reports whether the type is one of the known dashboard types.
func (t DashboardType) Valid() bool {
	switch t {
	case DashboardAnalytics, DashboardAgent, DashboardCustomer, DashboardProperty:
		return true
	default:
		return false
	}
}

// Dashboard is a durable derived cache of the last-computed aggregate view.
// It is fully rebuilt from Property and User data on every stats request, so
// concurrent last-write-wins saves are harmless.
type Dashboard struct {
	ID             bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type           DashboardType  `bson:"type" json:"type"`
	Statistics     Statistics     `bson:"statistics" json:"statistics"`
	Charts         Charts         `bson:"charts" json:"charts"`
	RecentActivity []Activity     `bson:"recentActivity,omitempty" json:"recentActivity,omitempty"`
	TopPerformers  TopPerformers  `bson:"topPerformers" json:"topPerformers"`
	Notifications  []Notification `bson:"notifications,omitempty" json:"notifications,omitempty"`
	LastUpdated    time.Time      `bson:"lastUpdated" json:"lastUpdated"`
}

// Statistics holds the numeric roll-ups shown at the top of the dashboard.
type Statistics struct {
	TotalProperties  int64   `bson:"totalProperties" json:"totalProperties"`
	PropertiesSold   int64   `bson:"propertiesSold" json:"propertiesSold"`
	PropertiesRented int64   `bson:"propertiesRented" json:"propertiesRented"`
	ActiveListings   int64   `bson:"activeListings" json:"activeListings"`
	TotalAgents      int64   `bson:"totalAgents" json:"totalAgents"`
	TotalCustomers   int64   `bson:"totalCustomers" json:"totalCustomers"`
	TotalRevenue     float64 `bson:"totalRevenue" json:"totalRevenue"`
	TotalViews       int64   `bson:"totalViews" json:"totalViews"`
}

// Charts holds the four chart series rendered on the analytics view.
type Charts struct {
	PropertyData []MonthBucket    `bson:"propertyData,omitempty" json:"propertyData,omitempty"`
	RevenueData  []RevenueBucket  `bson:"revenueData,omitempty" json:"revenueData,omitempty"`
	CountryData  []BreakdownGroup `bson:"countryData,omitempty" json:"countryData,omitempty"`
	CategoryData []BreakdownGroup `bson:"categoryData,omitempty" json:"categoryData,omitempty"`
}

// MonthBucket is one calendar-month group in a time series. Month is rendered
// as "YYYY-MM" with a zero-padded month number.
type MonthBucket struct {
	Month string  `bson:"month" json:"month"`
	Count int64   `bson:"count" json:"count"`
	Total float64 `bson:"total" json:"total"`
}

// RevenueBucket is one (month, status) group in the revenue series. A month
// that mixes sold and rented closings yields two buckets, one per status, so
// the Type tag is always deterministic.
type RevenueBucket struct {
	Month   string  `bson:"month" json:"month"`
	Type    string  `bson:"type" json:"type"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// BreakdownGroup is one slice of a share-of-total breakdown (by country or by
// category). Percentage is rounded to one decimal and is 0 when the overall
// total is 0.
type BreakdownGroup struct {
	Label      string  `bson:"label" json:"label"`
	Count      int64   `bson:"count" json:"count"`
	Percentage float64 `bson:"percentage" json:"percentage"`
}

// Activity is one entry in the bounded recent-activity log, newest first.
type Activity struct {
	Kind       string        `bson:"kind" json:"kind"`
	Message    string        `bson:"message" json:"message"`
	ActorID    bson.ObjectID `bson:"actorId,omitempty" json:"actorId,omitempty"`
	OccurredAt time.Time     `bson:"occurredAt" json:"occurredAt"`
}

// TopPerformers lists the best-performing agents and listings.
type TopPerformers struct {
	Agents     []AgentPerformance    `bson:"agents,omitempty" json:"agents,omitempty"`
	Properties []PropertyPerformance `bson:"properties,omitempty" json:"properties,omitempty"`
}

// AgentPerformance is a single agent's roll-up in the top-performers list.
type AgentPerformance struct {
	AgentID    bson.ObjectID `bson:"agentId" json:"agentId"`
	Name       string        `bson:"name" json:"name"`
	Properties int64         `bson:"properties" json:"properties"`
	Revenue    float64       `bson:"revenue" json:"revenue"`
}

// PropertyPerformance is a single listing's roll-up in the top-performers list.
type PropertyPerformance struct {
	PropertyID bson.ObjectID `bson:"propertyId" json:"propertyId"`
	Title      string        `bson:"title" json:"title"`
	Views      int64         `bson:"views" json:"views"`
	Favorites  int64         `bson:"favorites" json:"favorites"`
}

// Notification is a dashboard-level notice for the viewing user.
type Notification struct {
	Message   string    `bson:"message" json:"message"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
