package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/chat-realtime/internal/models"
)

// profileProjection limits user reads to the public profile fields.
var profileProjection = bson.D{
	{Key: "firstName", Value: 1},
	{Key: "lastName", Value: 1},
	{Key: "email", Value: 1},
	{Key: "image", Value: 1},
	{Key: "color", Value: 1},
}

type messageDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Sender      primitive.ObjectID  `bson:"sender"`
	Recipient   *primitive.ObjectID `bson:"recipient"`
	Content     string              `bson:"content,omitempty"`
	MessageType string              `bson:"messageType"`
	FileURL     string              `bson:"fileUrl,omitempty"`
	Timestamp   time.Time           `bson:"timestamp"`
}

type channelDoc struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Name     string               `bson:"name"`
	Admin    primitive.ObjectID   `bson:"admin"`
	Members  []primitive.ObjectID `bson:"members"`
	Messages []primitive.ObjectID `bson:"messages,omitempty"`
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Image     string             `bson:"image"`
	Color     int                `bson:"color"`
}

type eventDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	RecipientID primitive.ObjectID `bson:"recipientId"`
	Description string             `bson:"description"`
	DateTime    time.Time          `bson:"dateTime"`
}

func (u userDoc) profile() models.Profile {
	return models.Profile{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Image:     u.Image,
		Color:     u.Color,
	}
}

// NewMongoClient connects and pings with a bounded timeout.
func NewMongoClient(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// MongoGateway implements Gateway against the chat database collections.
type MongoGateway struct {
	users    *mongo.Collection
	messages *mongo.Collection
	channels *mongo.Collection
	events   *mongo.Collection
}

func NewMongoGateway(db *mongo.Database) *MongoGateway {
	return &MongoGateway{
		users:    db.Collection("users"),
		messages: db.Collection("messages"),
		channels: db.Collection("channels"),
		events:   db.Collection("events"),
	}
}

func (g *MongoGateway) CreateMessage(ctx context.Context, m *models.Message) (string, error) {
	sender, err := primitive.ObjectIDFromHex(m.Sender)
	if err != nil {
		return "", fmt.Errorf("invalid sender id %q: %w", m.Sender, err)
	}
	doc := messageDoc{
		Sender:      sender,
		Content:     m.Content,
		MessageType: m.MessageType,
		FileURL:     m.FileURL,
		Timestamp:   m.Timestamp,
	}
	if m.Recipient != "" {
		recipient, err := primitive.ObjectIDFromHex(m.Recipient)
		if err != nil {
			return "", fmt.Errorf("invalid recipient id %q: %w", m.Recipient, err)
		}
		doc.Recipient = &recipient
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}

	res, err := g.messages.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert message: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (g *MongoGateway) GetMessageExpanded(ctx context.Context, id string) (*models.MessageView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", id, err)
	}

	var doc messageDoc
	if err := g.messages.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}

	view := &models.MessageView{
		ID:          doc.ID.Hex(),
		Content:     doc.Content,
		MessageType: doc.MessageType,
		FileURL:     doc.FileURL,
		Timestamp:   doc.Timestamp,
	}

	sender, err := g.findProfile(ctx, doc.Sender)
	if err != nil {
		return nil, err
	}
	view.Sender = &sender

	if doc.Recipient != nil {
		recipient, err := g.findProfile(ctx, *doc.Recipient)
		if err != nil {
			return nil, err
		}
		view.Recipient = &recipient
	}
	return view, nil
}

func (g *MongoGateway) AppendMessageToChannel(ctx context.Context, channelID, messageID string) error {
	cid, err := primitive.ObjectIDFromHex(channelID)
	if err != nil {
		return fmt.Errorf("invalid channel id %q: %w", channelID, err)
	}
	mid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return fmt.Errorf("invalid message id %q: %w", messageID, err)
	}

	res, err := g.channels.UpdateOne(ctx,
		bson.M{"_id": cid},
		bson.M{"$push": bson.M{"messages": mid}},
	)
	if err != nil {
		return fmt.Errorf("append message to channel: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *MongoGateway) GetChannelWithMembers(ctx context.Context, channelID string) (*models.ChannelView, error) {
	cid, err := primitive.ObjectIDFromHex(channelID)
	if err != nil {
		return nil, fmt.Errorf("invalid channel id %q: %w", channelID, err)
	}

	var doc channelDoc
	if err := g.channels.FindOne(ctx, bson.M{"_id": cid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find channel: %w", err)
	}

	view := &models.ChannelView{
		ID:   doc.ID.Hex(),
		Name: doc.Name,
	}

	admin, err := g.findProfile(ctx, doc.Admin)
	if err != nil {
		return nil, err
	}
	view.Admin = admin

	if len(doc.Members) == 0 {
		return view, nil
	}

	cur, err := g.users.Find(ctx,
		bson.M{"_id": bson.M{"$in": doc.Members}},
		options.Find().SetProjection(profileProjection),
	)
	if err != nil {
		return nil, fmt.Errorf("find channel members: %w", err)
	}
	defer cur.Close(ctx)

	byID := make(map[primitive.ObjectID]userDoc, len(doc.Members))
	for cur.Next(ctx) {
		var u userDoc
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		byID[u.ID] = u
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	// $in does not preserve order; fan-out follows the stored member list.
	view.Members = make([]models.Profile, 0, len(doc.Members))
	for _, mid := range doc.Members {
		if u, ok := byID[mid]; ok {
			view.Members = append(view.Members, u.profile())
		}
	}
	return view, nil
}

func (g *MongoGateway) UpcomingEvents(ctx context.Context, from, until time.Time) ([]models.Event, error) {
	cur, err := g.events.Find(ctx, bson.M{
		"dateTime": bson.M{"$gte": from, "$lte": until},
	})
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Event
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, models.Event{
			ID:          doc.ID.Hex(),
			UserID:      doc.UserID.Hex(),
			RecipientID: doc.RecipientID.Hex(),
			Description: doc.Description,
			DateTime:    doc.DateTime,
		})
	}
	return out, cur.Err()
}

func (g *MongoGateway) findProfile(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	var u userDoc
	err := g.users.FindOne(ctx,
		bson.M{"_id": id},
		options.FindOne().SetProjection(profileProjection),
	).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("find user %s: %w", id.Hex(), err)
	}
	return u.profile(), nil
}
