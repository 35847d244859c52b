package gazetteer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/parser"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	adminUnitsCollection = "admin_units"
	mongoBatchSize       = 1000
)

// ConnectMongo kết nối và ping MongoDB
func ConnectMongo(ctx context.Context, url string, logger *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("lỗi kết nối MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("lỗi ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB")
	return client, nil
}

// MongoDatabaseName lấy tên database từ authSource của URI, mặc định fallback
func MongoDatabaseName(url, fallback string) string {
	clientOpts := options.Client().ApplyURI(url)
	if clientOpts.Auth != nil && clientOpts.Auth.AuthSource != "" {
		return clientOpts.Auth.AuthSource
	}
	return fallback
}

// MongoStore tra cứu trên collection admin_units
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
}

// OpenMongo kết nối MongoDB và mở MongoStore, Close sẽ ngắt kết nối client
func OpenMongo(ctx context.Context, url, database string, logger *zap.Logger) (*MongoStore, error) {
	client, err := ConnectMongo(ctx, url, logger)
	if err != nil {
		return nil, err
	}
	if database == "" {
		database = MongoDatabaseName(url, "address_parser")
	}
	store, err := NewMongoStore(ctx, client.Database(database), logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	store.client = client
	return store, nil
}

// NewMongoStore tạo mới MongoStore trên database có sẵn
func NewMongoStore(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*MongoStore, error) {
	collection := db.Collection(adminUnitsCollection)

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "level", Value: 1}, {Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "level", Value: 1}, {Key: "parent_code", Value: 1}, {Key: "name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "level", Value: 1}, {Key: "name", Value: 1}},
		},
	}

	idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(idxCtx, indexModels); err != nil {
		logger.Warn("Không thể tạo indexes cho admin_units", zap.Error(err))
	}

	return &MongoStore{collection: collection, logger: logger}, nil
}

var recordProjection = bson.M{"code": 1, "name": 1, "level": 1, "parent_code": 1}

// FindByPrefix dùng regex neo đầu chuỗi để tận dụng index trên name
func (s *MongoStore) FindByPrefix(ctx context.Context, level parser.Level, parentCode, prefix string) ([]parser.AddressRecord, error) {
	filter := bson.M{
		"level": int(level),
		"name":  bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)},
	}
	if parentCode != "" {
		filter["parent_code"] = parentCode
	}

	cursor, err := s.collection.Find(ctx, filter, options.Find().SetProjection(recordProjection))
	if err != nil {
		return nil, fmt.Errorf("lỗi query admin_units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []models.AdminUnit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("lỗi decode admin_units: %w", err)
	}

	records := make([]parser.AddressRecord, 0, len(units))
	for i := range units {
		records = append(records, units[i].Record())
	}
	return records, nil
}

// FindByCode tìm theo (level, code)
func (s *MongoStore) FindByCode(ctx context.Context, level parser.Level, code string) (*parser.AddressRecord, error) {
	var unit models.AdminUnit
	err := s.collection.FindOne(ctx, bson.M{"level": int(level), "code": code},
		options.FindOne().SetProjection(recordProjection)).Decode(&unit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("lỗi query admin_units theo code: %w", err)
	}
	rec := unit.Record()
	return &rec, nil
}

// Replace xóa collection rồi insert theo batch
func (s *MongoStore) Replace(ctx context.Context, units []models.AdminUnit, version string) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("lỗi xóa admin_units: %w", err)
	}

	now := time.Now()
	for i := 0; i < len(units); i += mongoBatchSize {
		end := i + mongoBatchSize
		if end > len(units) {
			end = len(units)
		}

		docs := make([]interface{}, 0, end-i)
		for _, u := range units[i:end] {
			u.GazetteerVersion = version
			u.CreatedAt = now
			u.UpdatedAt = now
			docs = append(docs, u)
		}
		if _, err := s.collection.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("lỗi insert admin_units batch %d-%d: %w", i, end, err)
		}
	}

	s.logger.Info("Đã nạp gazetteer vào MongoDB",
		zap.Int("units", len(units)),
		zap.String("version", version))
	return nil
}

// Stats đếm theo level bằng aggregation
func (s *MongoStore) Stats(ctx context.Context) (*Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$level"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "version", Value: bson.D{{Key: "$max", Value: "$gazetteer_version"}}},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("lỗi aggregate admin_units: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Level   int    `bson:"_id"`
		Count   int64  `bson:"count"`
		Version string `bson:"version"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("lỗi decode thống kê: %w", err)
	}

	stats := &Stats{Driver: DriverMongo, ByLevel: make(map[string]int64)}
	for _, g := range groups {
		stats.ByLevel[levelKey(g.Level)] = g.Count
		stats.Total += g.Count
		if g.Version > stats.Version {
			stats.Version = g.Version
		}
	}
	return stats, nil
}

// Close ngắt kết nối nếu store tự mở client
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
