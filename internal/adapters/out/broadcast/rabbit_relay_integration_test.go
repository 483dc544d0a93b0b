package broadcast_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ordering/internal/adapters/out/broadcast"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RabbitRelayIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	url       string
}

func (suite *RabbitRelayIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{"5672/tcp"},
			Env: map[string]string{
				"RABBITMQ_DEFAULT_USER": "relay",
				"RABBITMQ_DEFAULT_PASS": "relay",
			},
			WaitingFor: wait.ForLog("Server startup complete").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	suite.Require().NoError(err)
	suite.url = fmt.Sprintf("amqp://relay:relay@%s:%s/", host, port.Port())
}

func (suite *RabbitRelayIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RabbitRelayIntegrationTestSuite) startRelay(ctx context.Context, exchange string) (*broadcast.RabbitRelay, *channelSink) {
	local := newChannelSink()
	relay, err := broadcast.DialRabbitRelay(suite.url, exchange, local, nil)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { _ = relay.Close() })

	ready := make(chan struct{})
	go func() { _ = relay.Consume(ctx, ready) }()
	select {
	case <-ready:
	case <-time.After(10 * time.Second):
		suite.FailNow("relay did not start consuming")
	}
	return relay, local
}

func (suite *RabbitRelayIntegrationTestSuite) TestDeliver_FansOutToEveryInstance() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, firstLocal := suite.startRelay(ctx, "fanout_test")
	_, secondLocal := suite.startRelay(ctx, "fanout_test")

	suite.Require().NoError(first.Deliver(ctx, []byte(`{"type":"new_order"}`)))

	for _, local := range []*channelSink{firstLocal, secondLocal} {
		select {
		case data := <-local.out:
			suite.JSONEq(`{"type":"new_order"}`, string(data))
		case <-time.After(5 * time.Second):
			suite.FailNow("event not relayed")
		}
	}
}

func (suite *RabbitRelayIntegrationTestSuite) TestConsume_StopsWithContext() {
	ctx, cancel := context.WithCancel(context.Background())
	local := newChannelSink()
	relay, err := broadcast.DialRabbitRelay(suite.url, "stop_test", local, nil)
	suite.Require().NoError(err)
	defer relay.Close()

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- relay.Consume(ctx, ready) }()
	<-ready

	cancel()

	select {
	case err := <-done:
		suite.NoError(err)
	case <-time.After(5 * time.Second):
		suite.Fail("consume did not return")
	}
}

func (suite *RabbitRelayIntegrationTestSuite) TestConsume_RecoversAfterConnectionLoss() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay, local := suite.startRelay(ctx, "reconnect_test")
	suite.Require().NoError(relay.DropConnection())

	payload := []byte(`{"type":"order_status_update"}`)
	deadline := time.After(30 * time.Second)
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()

	for {
		// Publish repeatedly: the consumer may still be rebinding its queue.
		_ = relay.Deliver(ctx, payload)
		select {
		case data := <-local.out:
			suite.JSONEq(string(payload), string(data))
			return
		case <-deadline:
			suite.FailNow("relay did not recover after the connection dropped")
		case <-tick.C:
		}
	}
}

func (suite *RabbitRelayIntegrationTestSuite) TestDeliver_AfterCloseFails() {
	relay, err := broadcast.DialRabbitRelay(suite.url, "closed_test", newChannelSink(), nil)
	suite.Require().NoError(err)
	suite.Require().NoError(relay.Close())

	err = relay.Deliver(context.Background(), []byte(`{}`))
	suite.ErrorIs(err, broadcast.ErrRelayClosed)
}

func TestRabbitRelayIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RabbitRelayIntegrationTestSuite))
}
