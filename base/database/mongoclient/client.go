package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/x-xyz/auctionhouse/base/backoff"
	"github.com/x-xyz/auctionhouse/base/log"
)

const (
	mgSocketTimeout = 60 * time.Second
	connectTimeout  = 10 * time.Second

	pingRetry      = 3
	pingRetryStart = 500 * time.Millisecond
	pingRetryLimit = 4 * time.Second
)

// Client wraps mongo.Client
type Client struct {
	DbName string
	*mongo.Client
}

// Config describes one mongo deployment
type Config struct {
	URI        string
	AuthDBName string
	DbName     string
	SSL        bool
	// SetSafe waits for a majority of the replica set on every write
	SetSafe bool
	// PoolSizeMultiplier times the number of cpus is the total connection pool size
	PoolSizeMultiplier float64
}

// MustConnectMongoClient returns MongoDB connection client if connected successfully, or it will trigger panic
func MustConnectMongoClient(cfg Config) *Client {
	cli, err := ConnectMongoClient(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"mongoURI": cfg.URI, "err": err}).Panic("fail to dial Mongo")
	}
	return cli
}

// poolSize splits the total pool among the hosts since each host keeps its own pool
func poolSize(multiplier float64, hosts int) uint64 {
	total := int(float64(runtime.NumCPU()) * multiplier)
	if total < 1 {
		total = 1
	}
	if hosts < 1 {
		hosts = 1
	}
	return uint64((total + hosts - 1) / hosts)
}

// ClientOptions builds the driver options of cfg without connecting
func ClientOptions(cfg Config) (*options.ClientOptions, error) {
	connSetting, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return nil, err
	}

	clientOpts := options.Client()
	clientOpts.ApplyURI(cfg.URI)
	clientOpts.SetSocketTimeout(mgSocketTimeout)

	// If AuthSource is not set in connstring, set it to AuthDBName
	if connSetting.Username != "" && connSetting.AuthSource == "" {
		clientOpts.SetAuth(options.Credential{
			AuthMechanism:           connSetting.AuthMechanism,
			AuthMechanismProperties: connSetting.AuthMechanismProperties,
			Username:                connSetting.Username,
			Password:                connSetting.Password,
			PasswordSet:             connSetting.PasswordSet,
			AuthSource:              cfg.AuthDBName,
		})
	}

	size := poolSize(cfg.PoolSizeMultiplier, len(connSetting.Hosts))
	clientOpts.SetMinPoolSize(size / 4)
	clientOpts.SetMaxPoolSize(size)

	if cfg.SSL {
		clientOpts.SetTLSConfig(&tls.Config{})
	}
	if cfg.SetSafe {
		clientOpts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	}
	clientOpts.SetRetryWrites(true)
	return clientOpts, nil
}

// ConnectMongoClient returns mongo driver client once the primary answers a ping
func ConnectMongoClient(cfg Config) (*Client, error) {
	logger := log.Log().WithFields(log.Fields{
		"mongoURI": cfg.URI,
		"dbName":   cfg.DbName,
	})

	clientOpts, err := ClientOptions(cfg)
	if err != nil {
		logger.WithField("err", err).Error("fail to parse connstring")
		return nil, err
	}
	logger.WithField("poolSize", *clientOpts.MaxPoolSize).Info("mongo driver pool size")

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.WithField("err", err).Error("fail to connect mongo db")
		return nil, err
	}

	b := backoff.NewExponential(pingRetryStart, pingRetryLimit)
	for i := 0; ; i++ {
		if err = client.Ping(ctx, readpref.Primary()); err == nil {
			break
		}
		logger.WithFields(log.Fields{"err": err, "retry": i}).Warn("fail to ping mongo db")
		if i == pingRetry {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		if err := b.Backoff(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}

	logger.Info("mongo connected")
	return &Client{
		Client: client,
		DbName: cfg.DbName,
	}, nil
}
