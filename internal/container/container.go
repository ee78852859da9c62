package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"grocerylist-api/config"
	"grocerylist-api/pkg/helpers"
	"grocerylist-api/pkg/mailer"
	"grocerylist-api/pkg/session"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	redisClient *redis.Client

	sessionManager *session.Manager
	mailgunClient  *mailer.Mailgun
	rabbitPub      *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)  { cfg = c }
func GetConfig() *config.Config   { return cfg }
func SetLogger(l *logrus.Logger)  { logger = l }
func GetLogger() *logrus.Logger   { return logger }
func SetMongo(c *mongo.Client)    { mongoClient = c }
func GetMongo() *mongo.Client     { return mongoClient }
func SetMongoDB(d *mongo.Database) { mongoDB = d }
func GetMongoDB() *mongo.Database { return mongoDB }
func SetRedis(r *redis.Client)    { redisClient = r }
func GetRedis() *redis.Client     { return redisClient }

func SetSessions(m *session.Manager)          { sessionManager = m }
func GetSessions() *session.Manager           { return sessionManager }
func SetMailgun(m *mailer.Mailgun)            { mailgunClient = m }
func GetMailgun() *mailer.Mailgun             { return mailgunClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
