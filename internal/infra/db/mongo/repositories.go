package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "siteavail/internal/domain/availability"
	domainbookings "siteavail/internal/domain/bookings"
	"siteavail/internal/domain/shared/daterange"
	domainsites "siteavail/internal/domain/sites"
)

type SiteRepository struct {
	col *mongo.Collection
}

func NewSiteRepository(db *mongo.Database) *SiteRepository {
	return &SiteRepository{col: db.Collection(sitesCollection)}
}

func (r *SiteRepository) FindSiteByID(ctx context.Context, id domainsites.SiteID) (*domainsites.Site, bool, error) {
	var doc siteDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("mongo: find site: %w", err)
	}
	site := doc.toSite()
	return &site, true, nil
}

// Save upserts a site; used by seeding tools.
func (r *SiteRepository) Save(ctx context.Context, site domainsites.Site) error {
	if err := site.Validate(); err != nil {
		return err
	}
	doc := newSiteDocument(site)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) FindActiveBookings(ctx context.Context, siteID domainsites.SiteID, window daterange.DateRange) ([]domainbookings.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "range.check_in", Value: 1}})
	cur, err := r.col.Find(ctx, activeBookingFilter(siteID, window), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find bookings: %w", err)
	}
	var docs []bookingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode bookings: %w", err)
	}
	out := make([]domainbookings.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toBooking())
	}
	return out, nil
}

func (r *BookingRepository) Save(ctx context.Context, b domainbookings.Booking) error {
	doc := newBookingDocument(b)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type BlockRepository struct {
	col *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	return &BlockRepository{col: db.Collection(blocksCollection)}
}

func (r *BlockRepository) FindBlockedDays(ctx context.Context, siteID domainsites.SiteID, window daterange.DateRange) ([]domainavailability.Block, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.col.Find(ctx, blockedDayFilter(siteID, window), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find blocks: %w", err)
	}
	var docs []blockDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode blocks: %w", err)
	}
	out := make([]domainavailability.Block, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toBlock())
	}
	return out, nil
}

func (r *BlockRepository) Save(ctx context.Context, b domainavailability.Block) error {
	doc := newBlockDocument(b)
	filter := bson.M{"site_id": doc.SiteID, "date": doc.Date}
	_, err := r.col.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	return err
}

// activeBookingFilter selects pending/confirmed bookings with check_in < window end and
// check_out > window start.
func activeBookingFilter(siteID domainsites.SiteID, window daterange.DateRange) bson.M {
	statuses := domainbookings.ActiveStatuses()
	active := make(bson.A, 0, len(statuses))
	for _, s := range statuses {
		active = append(active, string(s))
	}
	return bson.M{
		"site_id":         string(siteID),
		"status":          bson.M{"$in": active},
		"range.check_in":  bson.M{"$lt": dayMillis(window.CheckOut)},
		"range.check_out": bson.M{"$gt": dayMillis(window.CheckIn)},
	}
}

func blockedDayFilter(siteID domainsites.SiteID, window daterange.DateRange) bson.M {
	return bson.M{
		"site_id":      string(siteID),
		"is_available": false,
		"date":         bson.M{"$gte": dayMillis(window.CheckIn), "$lt": dayMillis(window.CheckOut)},
	}
}

func bookingIndexKeys() bson.D {
	return bson.D{{Key: "site_id", Value: 1}, {Key: "status", Value: 1}, {Key: "range.check_in", Value: 1}}
}

func blockIndexKeys() bson.D {
	return bson.D{{Key: "site_id", Value: 1}, {Key: "date", Value: 1}}
}

var (
	_ domainsites.Repository             = (*SiteRepository)(nil)
	_ domainbookings.Repository          = (*BookingRepository)(nil)
	_ domainavailability.BlockRepository = (*BlockRepository)(nil)
)
