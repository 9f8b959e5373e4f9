package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderConfirmation is published for every completed checkout. A downstream
// mailer delivers the buyer receipt and the seller payout notice to the
// verified email addresses.
type OrderConfirmation struct {
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Amount      int64  `json:"amount"`
	AmountText  string `json:"amount_text"`
	Currency    string `json:"currency"`
	BuyerEmail  string `json:"buyer_email"`
	SellerEmail string `json:"seller_email"`
	Shipped     bool   `json:"shipped"`
}

type Notifier interface {
	OrderConfirmed(ctx context.Context, confirmation OrderConfirmation) error
}

type KafkaNotifier struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaNotifier(topic string, log *zap.Logger, brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w, log: log}
}

func (n *KafkaNotifier) OrderConfirmed(ctx context.Context, confirmation OrderConfirmation) error {
	confirmation.AmountText = FormatMinorUnits(confirmation.Amount, confirmation.Currency)

	payload, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("marshal order confirmation: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(confirmation.OrderID),
		Value: payload,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order confirmation: %w", err)
	}

	n.log.Info("order confirmation published",
		zap.String("order_id", confirmation.OrderID),
		zap.String("amount", confirmation.AmountText),
	)
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// FormatMinorUnits renders an integer amount in minor currency units as a
// display string, e.g. 500 INR -> "5.00 INR".
func FormatMinorUnits(amount int64, currency string) string {
	major := decimal.New(amount, -2)
	return fmt.Sprintf("%s %s", major.StringFixed(2), currency)
}
