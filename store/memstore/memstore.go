// Package memstore is an in-memory implementation of the store interfaces for tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/urban_nest/backend/models"
	"github.com/dcode-github/urban_nest/backend/store"
)

// DB is the shared state behind the four repositories so joins see each other's writes.
type DB struct {
	mu sync.Mutex

	users      map[primitive.ObjectID]models.User
	properties map[primitive.ObjectID]models.Property
	reviews    map[primitive.ObjectID]models.Review
	inquiries  map[primitive.ObjectID]models.Inquiry

	clock time.Time

	// Fail, when set, is returned by every operation.
	Fail error
	// FailStats only fails rating aggregation.
	FailStats error
}

func New() *DB {
	return &DB{
		users:      map[primitive.ObjectID]models.User{},
		properties: map[primitive.ObjectID]models.Property{},
		reviews:    map[primitive.ObjectID]models.Review{},
		inquiries:  map[primitive.ObjectID]models.Inquiry{},
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Store wires the repositories into a store.Store.
func (db *DB) Store() *store.Store {
	return &store.Store{
		Users:      &Users{db},
		Properties: &Properties{db},
		Reviews:    &Reviews{db},
		Inquiries:  &Inquiries{db},
	}
}

// Ping satisfies the health check.
func (db *DB) Ping(context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.Fail
}

// now returns strictly increasing timestamps so newest-first ordering is deterministic.
func (db *DB) now() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *DB) summary(id primitive.ObjectID, fields ...string) *models.UserSummary {
	u, ok := db.users[id]
	if !ok {
		return nil
	}
	s := &models.UserSummary{ID: u.ID, Name: u.Name}
	for _, f := range fields {
		switch f {
		case "email":
			s.Email = u.Email
		case "phone":
			s.Phone = u.Phone
		case "avatar":
			s.Avatar = u.Avatar
		}
	}
	return s
}

type Users struct{ db *DB }

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	for _, u := range s.db.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Wishlist == nil {
		user.Wishlist = []primitive.ObjectID{}
	}
	now := s.db.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.db.users[user.ID] = *user
	return nil
}

func (s *Users) get(id primitive.ObjectID, withPassword bool) (*models.User, error) {
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !withPassword {
		u.Password = ""
	}
	u.Wishlist = append([]primitive.ObjectID{}, u.Wishlist...)
	return &u, nil
}

func (s *Users) byEmail(email string, withPassword bool) (*models.User, error) {
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	for id, u := range s.db.users {
		if u.Email == email {
			return s.get(id, withPassword)
		}
	}
	return nil, store.ErrNotFound
}

func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.get(id, false)
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.byEmail(email, false)
}

func (s *Users) FindCredentials(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.byEmail(email, true)
}

func (s *Users) FindCredentialsByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.get(id, true)
}

func (s *Users) Update(_ context.Context, id primitive.ObjectID, update store.UserUpdate) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if update.Email != nil {
		for other, existing := range s.db.users {
			if other != id && existing.Email == *update.Email {
				return nil, store.ErrDuplicate
			}
		}
	}
	update.Apply(&u, s.db.now())
	s.db.users[id] = u
	return s.get(id, false)
}

func (s *Users) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	u, ok := s.db.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = hash
	s.db.users[id] = u
	return nil
}

func (s *Users) List(_ context.Context) ([]models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	users := []models.User{}
	for _, u := range s.db.users {
		u.Password = ""
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (s *Users) AddToWishlist(_ context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	u, ok := s.db.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !u.InWishlist(propertyID) {
		u.Wishlist = append(u.Wishlist, propertyID)
	}
	s.db.users[userID] = u
	return append([]primitive.ObjectID{}, u.Wishlist...), nil
}

func (s *Users) RemoveFromWishlist(_ context.Context, userID, propertyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	u, ok := s.db.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	kept := []primitive.ObjectID{}
	for _, id := range u.Wishlist {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	u.Wishlist = kept
	s.db.users[userID] = u
	return append([]primitive.ObjectID{}, kept...), nil
}

type Properties struct{ db *DB }

func (s *Properties) Create(_ context.Context, p *models.Property) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	p.ID = primitive.NewObjectID()
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	now := s.db.now()
	p.CreatedAt, p.UpdatedAt = now, now
	s.db.properties[p.ID] = *p
	return nil
}

func (s *Properties) FindByID(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	p, ok := s.db.properties[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Properties) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	out := []models.Property{}
	for _, id := range ids {
		if p, ok := s.db.properties[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Properties) View(_ context.Context, id primitive.ObjectID) (*models.PropertyView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	p, ok := s.db.properties[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Views++
	s.db.properties[id] = p
	return &models.PropertyView{Property: p, OwnerDetails: s.db.summary(p.Owner, "email", "phone")}, nil
}

func (s *Properties) List(_ context.Context, f store.PropertyFilter) ([]models.PropertyView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	var matched []models.Property
	for _, p := range s.db.properties {
		if matches(f, p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if f.Limit > 0 && int64(len(matched)) > f.Limit {
		matched = matched[:f.Limit]
	}
	views := []models.PropertyView{}
	for _, p := range matched {
		views = append(views, models.PropertyView{Property: p, OwnerDetails: s.db.summary(p.Owner, "email")})
	}
	return views, nil
}

func matches(f store.PropertyFilter, p models.Property) bool {
	if f.Search != "" && !matchesText(f.Search, p) {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.Owner != nil && p.Owner != *f.Owner {
		return false
	}
	return true
}

// matchesText approximates a text index: any search term found in any indexed field.
func matchesText(search string, p models.Property) bool {
	haystack := strings.ToLower(p.Title + " " + p.Description + " " + p.Location)
	for _, term := range strings.Fields(strings.ToLower(search)) {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func (s *Properties) Update(_ context.Context, id primitive.ObjectID, update store.PropertyUpdate) (*models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	p, ok := s.db.properties[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	update.Apply(&p, s.db.now())
	s.db.properties[id] = p
	return &p, nil
}

func (s *Properties) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	if _, ok := s.db.properties[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.db.properties, id)
	return nil
}

func (s *Properties) SetRatingStats(_ context.Context, id primitive.ObjectID, stats models.RatingStats) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	p, ok := s.db.properties[id]
	if !ok {
		return store.ErrNotFound
	}
	p.NumReviews = stats.Count
	p.AverageRating = stats.Average
	s.db.properties[id] = p
	return nil
}

type Reviews struct {
	db *DB
}

func (s *Reviews) Create(_ context.Context, r *models.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	for _, existing := range s.db.reviews {
		if existing.Property == r.Property && existing.User == r.User {
			return store.ErrDuplicate
		}
	}
	r.ID = primitive.NewObjectID()
	now := s.db.now()
	r.CreatedAt, r.UpdatedAt = now, now
	s.db.reviews[r.ID] = *r
	return nil
}

func (s *Reviews) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	r, ok := s.db.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *Reviews) ListByProperty(_ context.Context, propertyID primitive.ObjectID) ([]models.ReviewView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	views := []models.ReviewView{}
	for _, r := range s.db.reviews {
		if r.Property == propertyID {
			views = append(views, models.ReviewView{Review: r, UserDetails: s.db.summary(r.User, "avatar")})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return views, nil
}

func (s *Reviews) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	if _, ok := s.db.reviews[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.db.reviews, id)
	return nil
}

func (s *Reviews) DeleteByProperty(_ context.Context, propertyID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	for id, r := range s.db.reviews {
		if r.Property == propertyID {
			delete(s.db.reviews, id)
		}
	}
	return nil
}

func (s *Reviews) Stats(_ context.Context, propertyID primitive.ObjectID) (models.RatingStats, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return models.RatingStats{}, s.db.Fail
	}
	if s.db.FailStats != nil {
		return models.RatingStats{}, s.db.FailStats
	}
	var stats models.RatingStats
	total := 0
	for _, r := range s.db.reviews {
		if r.Property == propertyID {
			stats.Count++
			total += r.Rating
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(total) / float64(stats.Count)
	}
	return stats, nil
}

type Inquiries struct {
	db *DB
}

func (s *Inquiries) Create(_ context.Context, i *models.Inquiry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	i.ID = primitive.NewObjectID()
	if i.Status == "" {
		i.Status = models.InquiryPending
	}
	now := s.db.now()
	i.CreatedAt, i.UpdatedAt = now, now
	s.db.inquiries[i.ID] = *i
	return nil
}

func (s *Inquiries) FindByID(_ context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	i, ok := s.db.inquiries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &i, nil
}

func (s *Inquiries) ListBySender(_ context.Context, sender primitive.ObjectID) ([]models.InquiryView, error) {
	return s.list(func(i models.Inquiry) bool { return i.Sender == sender })
}

func (s *Inquiries) ListByReceiver(_ context.Context, receiver primitive.ObjectID) ([]models.InquiryView, error) {
	return s.list(func(i models.Inquiry) bool { return i.Receiver == receiver })
}

func (s *Inquiries) list(keep func(models.Inquiry) bool) ([]models.InquiryView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	views := []models.InquiryView{}
	for _, i := range s.db.inquiries {
		if !keep(i) {
			continue
		}
		view := models.InquiryView{
			Inquiry:         i,
			SenderDetails:   s.db.summary(i.Sender, "email", "phone", "avatar"),
			ReceiverDetails: s.db.summary(i.Receiver, "email"),
		}
		if p, ok := s.db.properties[i.Property]; ok {
			view.PropertyDetails = &models.PropertySummary{ID: p.ID, Title: p.Title, Images: p.Images}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(a, b int) bool { return views[a].CreatedAt.After(views[b].CreatedAt) })
	return views, nil
}

func (s *Inquiries) SetStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Inquiry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return nil, s.db.Fail
	}
	i, ok := s.db.inquiries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	i.Status = status
	i.UpdatedAt = s.db.now()
	s.db.inquiries[id] = i
	return &i, nil
}

func (s *Inquiries) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.Fail != nil {
		return s.db.Fail
	}
	if _, ok := s.db.inquiries[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.db.inquiries, id)
	return nil
}
