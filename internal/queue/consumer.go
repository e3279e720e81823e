// consumer.go contains the background consumer that listens to the booking
// event queues and appends an audit line per event to logs/booking.log.
package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// StartBookingConsumer connects to RabbitMQ, declares the booking event
// queues (durable), and starts consuming messages. Each message is appended
// to logs/booking.log in a single-line, human-friendly format. The function
// runs a reconnect loop; it keeps running and logs any processing errors
// while rejecting the offending message so the server continues operating.
func StartBookingConsumer() error {
    url := brokerURL()

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn); err != nil {
            log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
            // Sleep briefly before reconnect
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("booking-consumer: set QoS failed: %v", err)
    }

    for _, name := range []string{BookingConfirmedQueue, BookingExtendedQueue, BookingReassignedQueue} {
        if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
    }

    deliveries := make(chan amqp.Delivery)
    for _, name := range []string{BookingConfirmedQueue, BookingExtendedQueue, BookingReassignedQueue} {
        msgs, err := ch.Consume(name, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("queue consume %s: %w", name, err)
        }
        go func() {
            // RoutingKey equals the queue name on the default exchange.
            for d := range msgs {
                deliveries <- d
            }
        }()
    }

    for d := range deliveries {
        if err := handleMessage(d.RoutingKey, d.Body); err != nil {
            log.Printf("booking-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleMessage(queueName string, body []byte) error {
    line, err := formatEvent(queueName, body)
    if err != nil {
        return err
    }
    return appendAuditLine(line)
}

// formatEvent renders one audit line for a raw event body.
func formatEvent(queueName string, body []byte) (string, error) {
    switch queueName {
    case BookingConfirmedQueue:
        var ev BookingConfirmedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return "", fmt.Errorf("unmarshal: %w", err)
        }
        return fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | code=%s | user_id=%d | box_id=%d | payment_id=%d | from=%s | to=%s | status=%s\n",
            ev.ConfirmedAt, ev.BookingID, ev.DisplayCode, ev.UserID, ev.BoxID, ev.PaymentID, ev.StartsAt, ev.EndsAt, ev.Status), nil
    case BookingExtendedQueue:
        var ev BookingExtendedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return "", fmt.Errorf("unmarshal: %w", err)
        }
        return fmt.Sprintf("[%s] Booking extended | booking_id=%d | code=%s | user_id=%d | prev_end=%s | new_end=%s | days=%d | cost=%d cents\n",
            ev.ExtendedAt, ev.BookingID, ev.DisplayCode, ev.UserID, ev.PreviousEndsAt, ev.NewEndsAt, ev.AdditionalDays, ev.AdditionalCostCents), nil
    case BookingReassignedQueue:
        var ev BookingReassignedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return "", fmt.Errorf("unmarshal: %w", err)
        }
        return fmt.Sprintf("[%s] Booking reassigned | booking_id=%d | code=%s | from_box=%d | to_box=%d\n",
            ev.ReassignedAt, ev.BookingID, ev.DisplayCode, ev.FromBoxID, ev.ToBoxID), nil
    }
    return "", fmt.Errorf("unknown queue: %s", queueName)
}

func appendAuditLine(line string) error {
    // Ensure logs directory exists
    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "booking.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
