package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestSinkPublishesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockPublisher(ctrl)

	gomock.InOrder(
		pub.EXPECT().Publish(gomock.Any(), Event{
			Action:     ActionUploadRejected,
			Metadata:   map[string]string{KeyProviderID: "p1", KeyReason: "provider not found"},
			OccurredAt: fixedTime,
			Trace:      map[string]string{"traceparent": "00-abc"},
		}).Return(nil),
		pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down")),
	)

	sink := NewSink(pub, logger.NewNop(), 4,
		WithClock(func() time.Time { return fixedTime }),
		WithCarrier(func(context.Context) map[string]string {
			return map[string]string{"traceparent": "00-abc"}
		}),
	)

	ctx := context.Background()
	sink.Record(ctx, ActionUploadRejected, map[string]string{KeyProviderID: "p1", KeyReason: "provider not found"})
	sink.Record(ctx, ActionVersionFailed, map[string]string{KeyProviderID: "p1"})

	require.NoError(t, sink.Close(ctx))
}

type blockingPublisher struct {
	release chan struct{}
	seen    chan Event
}

func (b *blockingPublisher) Publish(_ context.Context, ev Event) error {
	b.seen <- ev
	<-b.release
	return nil
}

func TestSinkDropsWhenFull(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{}), seen: make(chan Event, 8)}
	sink := NewSink(pub, logger.NewNop(), 1)
	ctx := context.Background()

	sink.Record(ctx, ActionVersionActivated, map[string]string{KeyVersionID: "v1"})
	<-pub.seen // worker is now blocked inside Publish

	sink.Record(ctx, ActionVersionActivated, map[string]string{KeyVersionID: "v2"})

	done := make(chan struct{})
	go func() {
		sink.Record(ctx, ActionVersionActivated, map[string]string{KeyVersionID: "v3"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	close(pub.release)
	require.NoError(t, sink.Close(ctx))
	close(pub.seen)

	var delivered []string
	for ev := range pub.seen {
		delivered = append(delivered, ev.Metadata[KeyVersionID])
	}
	assert.Equal(t, []string{"v2"}, delivered)
}

func TestRecordCopiesMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev Event) error {
		assert.Equal(t, "p1", ev.Metadata[KeyProviderID])
		return nil
	})

	sink := NewSink(pub, logger.NewNop(), 1)
	md := map[string]string{KeyProviderID: "p1"}
	sink.Record(context.Background(), ActionVersionFailed, md)
	md[KeyProviderID] = "changed"

	require.NoError(t, sink.Close(context.Background()))
}

func TestRecordAfterCloseIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockPublisher(ctrl)

	sink := NewSink(pub, logger.NewNop(), 4)
	ctx := context.Background()
	require.NoError(t, sink.Close(ctx))

	assert.NotPanics(t, func() {
		sink.Record(ctx, ActionVersionFailed, map[string]string{KeyProviderID: "p1"})
	})
	require.NoError(t, sink.Close(ctx), "closing twice is a no-op")
}
