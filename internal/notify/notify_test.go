package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func sampleEvent() Event {
	return Event{
		FormType:    "consultant",
		Label:       "Individual Consultant",
		Subject:     "New Consultant Submission",
		Title:       "Jane <Doe>",
		AccountID:   "acc-1",
		RecordID:    "rec-1",
		URL:         "https://example.org/profiles/consultant-entries/jane-doe",
		SubmittedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

type recordingNotifier struct {
	got []Event
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestMulti_CallsAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("smtp down")
	a := &recordingNotifier{err: boom}
	b := &recordingNotifier{}

	err := Multi{a, nil, b}.Notify(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)

	assert.NoError(t, Multi{}.Notify(context.Background(), sampleEvent()))
	assert.NoError(t, Nop{}.Notify(context.Background(), sampleEvent()))
}

func TestMailNotifier_Message(t *testing.T) {
	m, err := NewMailNotifier(MailConfig{Host: "smtp.test", From: "info@example.org", To: "ops@example.org"})
	require.NoError(t, err)

	msg, err := m.Message(sampleEvent())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: New Consultant Submission")
	assert.Contains(t, raw, "ops@example.org")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "Jane &lt;Doe&gt;")
}

func TestMailNotifier_NotifyUsesSender(t *testing.T) {
	m, err := NewMailNotifier(MailConfig{Host: "smtp.test", From: "info@example.org", To: "ops@example.org"})
	require.NoError(t, err)

	var sent *mail.Msg
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent = msg
		return nil
	}
	require.NoError(t, m.Notify(context.Background(), sampleEvent()))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"New Consultant Submission"}, sent.GetGenHeader(mail.HeaderSubject))
}

func TestMailNotifier_RequiresAddresses(t *testing.T) {
	_, err := NewMailNotifier(MailConfig{Host: "smtp.test"})
	assert.Error(t, err)

	m, err := NewMailNotifier(MailConfig{Host: "smtp.test", From: "not an address", To: "ops@example.org"})
	require.NoError(t, err)
	_, err = m.Message(sampleEvent())
	assert.Error(t, err)
}

type fakeBot struct {
	sent []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramNotifier(t *testing.T) {
	bot := &fakeBot{}
	n := &TelegramNotifier{bot: bot, chatID: 42}

	require.NoError(t, n.Notify(context.Background(), sampleEvent()))
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Jane &lt;Doe&gt;")
	assert.Contains(t, msg.Text, "jane-doe")
}

func TestRedisPublisher_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	p := NewRedisPublisher(rdb, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := p.Subscribe(ctx)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, p.Notify(ctx, sampleEvent()))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, SubmissionsChannel, msg.Channel)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "rec-1", got.RecordID)
	assert.Equal(t, "consultant", got.FormType)
}
