package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
)

const (
	collectionPrefix   = "patrimonios_"
	snapshotCollection = "inventory_snapshots"
	assetNumberField   = "numero_patrimonio_lamic"
)

// ErrRoomCollision is returned when two configured rooms map to the same collection.
var ErrRoomCollision = errors.New("rooms share a collection")

// Repository stores asset records in MongoDB with one collection per room.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
	rooms  []string
	logger *zap.Logger
}

// NewMongoDBRepository connects to MongoDB and prepares one collection per room.
func NewMongoDBRepository(ctx context.Context, uri, dbName string, rooms []string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := CheckRooms(rooms); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &Repository{
		client: client,
		db:     client.Database(dbName),
		rooms:  append([]string(nil), rooms...),
		logger: logger,
	}

	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	for _, room := range r.rooms {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: assetNumberField, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := r.collection(room).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create asset number index for %s: %w", room, err)
		}
	}
	return nil
}

func (r *Repository) collection(room string) *mongo.Collection {
	return r.db.Collection(CollectionName(room))
}

// List returns every record, grouped by room in configuration order.
func (r *Repository) List(ctx context.Context) ([]models.AssetRecord, error) {
	records := make([]models.AssetRecord, 0)
	for _, room := range r.rooms {
		cursor, err := r.collection(room).Find(ctx, bson.D{})
		if err != nil {
			return nil, fmt.Errorf("find assets in %s: %w", room, err)
		}

		var batch []models.AssetRecord
		if err := cursor.All(ctx, &batch); err != nil {
			return nil, fmt.Errorf("decode assets in %s: %w", room, err)
		}
		records = append(records, batch...)
	}
	return records, nil
}

// Get loads one record addressed by room and id.
func (r *Repository) Get(ctx context.Context, room, id string) (models.AssetRecord, error) {
	var record models.AssetRecord
	err := r.collection(room).FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AssetRecord{}, models.ErrAssetNotFound
	}
	if err != nil {
		return models.AssetRecord{}, fmt.Errorf("find asset %s in %s: %w", id, room, err)
	}
	return record, nil
}

// FindByAssetNumber searches every room for a record with the primary asset number.
func (r *Repository) FindByAssetNumber(ctx context.Context, number string) (*models.AssetRecord, error) {
	for _, room := range r.rooms {
		var record models.AssetRecord
		err := r.collection(room).FindOne(ctx, bson.M{assetNumberField: number}).Decode(&record)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find asset number %s in %s: %w", number, room, err)
		}
		return &record, nil
	}
	return nil, nil
}

// Insert stores a new record in the collection of its room and assigns its id.
func (r *Repository) Insert(ctx context.Context, in models.AssetInput) (models.AssetRecord, error) {
	record := in.Record(primitive.NewObjectID().Hex())
	if _, err := r.collection(in.Room).InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.AssetRecord{}, models.ErrDuplicateAssetNumber
		}
		return models.AssetRecord{}, fmt.Errorf("insert asset into %s: %w", in.Room, err)
	}

	r.logger.Debug("asset inserted", zap.String("room", in.Room), zap.String("id", record.ID))
	return record, nil
}

// Replace overwrites the record addressed by room and id. When the input names a
// different room the record moves to that room's collection and keeps its id.
func (r *Repository) Replace(ctx context.Context, room, id string, in models.AssetInput) (models.AssetRecord, error) {
	record := in.Record(id)

	if in.Room == room {
		res, err := r.collection(room).ReplaceOne(ctx, bson.M{"_id": id}, record)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return models.AssetRecord{}, models.ErrDuplicateAssetNumber
			}
			return models.AssetRecord{}, fmt.Errorf("replace asset %s in %s: %w", id, room, err)
		}
		if res.MatchedCount == 0 {
			return models.AssetRecord{}, models.ErrAssetNotFound
		}
		return record, nil
	}

	var previous models.AssetRecord
	err := r.collection(room).FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&previous)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AssetRecord{}, models.ErrAssetNotFound
	}
	if err != nil {
		return models.AssetRecord{}, fmt.Errorf("remove asset %s from %s: %w", id, room, err)
	}

	if _, err := r.collection(in.Room).InsertOne(ctx, record); err != nil {
		// Put the original back so a failed move does not lose the record.
		if _, restoreErr := r.collection(room).InsertOne(ctx, previous); restoreErr != nil {
			r.logger.Error("failed to restore asset after move", zap.String("id", id), zap.Error(restoreErr))
		}
		if mongo.IsDuplicateKeyError(err) {
			return models.AssetRecord{}, models.ErrDuplicateAssetNumber
		}
		return models.AssetRecord{}, fmt.Errorf("move asset %s to %s: %w", id, in.Room, err)
	}

	r.logger.Debug("asset moved", zap.String("id", id), zap.String("from", room), zap.String("to", in.Room))
	return record, nil
}

// Delete removes the record addressed by room and id.
func (r *Repository) Delete(ctx context.Context, room, id string) error {
	res, err := r.collection(room).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete asset %s from %s: %w", id, room, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrAssetNotFound
	}
	return nil
}

// SaveSnapshot stores an inventory summary for historical reporting.
func (r *Repository) SaveSnapshot(ctx context.Context, summary models.InventorySummary) error {
	if _, err := r.db.Collection(snapshotCollection).InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("failed to insert inventory snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// CollectionName derives the collection holding a room's records: the room name
// folded to ASCII, lowercased, with runs of other characters collapsed to "_".
func CollectionName(room string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), room)
	if err != nil {
		folded = room
	}

	parts := strings.FieldsFunc(folded, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	return collectionPrefix + strings.ToLower(strings.Join(parts, "_"))
}

// CheckRooms fails when two distinct room names fold to the same collection, which
// would make List return their records twice and let either name address them.
func CheckRooms(rooms []string) error {
	owners := make(map[string]string, len(rooms))
	for _, room := range rooms {
		name := CollectionName(room)
		if owner, taken := owners[name]; taken {
			return fmt.Errorf("%w: %q and %q both map to %s", ErrRoomCollision, owner, room, name)
		}
		owners[name] = room
	}
	return nil
}
