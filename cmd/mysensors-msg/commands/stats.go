package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mysensors/mysensors-go/pkg/log"
	"github.com/mysensors/mysensors-go/pkg/wire"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	MessagesByCommand map[wire.Command]int
	Sessions          map[string]*SessionStats
	Nodes             map[uint8]*NodeStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single link session.
type SessionStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	RemoteAddr string
}

// NodeStats counts decoded messages sent by one node.
type NodeStats struct {
	Messages int
	Acks     int
	LastSeen time.Time
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		MessagesByCommand: make(map[wire.Command]int),
		Sessions:          make(map[string]*SessionStats),
		Nodes:             make(map[uint8]*NodeStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	session, ok := s.Sessions[event.SessionID]
	if !ok {
		session = &SessionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Sessions[event.SessionID] = session
	}
	session.Events++
	if event.Timestamp.After(session.LastSeen) {
		session.LastSeen = event.Timestamp
	}
	if event.RemoteAddr != "" && session.RemoteAddr == "" {
		session.RemoteAddr = event.RemoteAddr
	}

	if msg := event.Message; msg != nil {
		s.MessagesByCommand[msg.Command]++
		node, ok := s.Nodes[msg.Sender]
		if !ok {
			node = &NodeStats{}
			s.Nodes[msg.Sender] = node
		}
		node.Messages++
		if msg.Ack {
			node.Acks++
		}
		if event.Timestamp.After(node.LastSeen) {
			node.LastSeen = event.Timestamp
		}
	}

	if event.Error != nil {
		s.Errors++
	}
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== MySensors Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.MessagesByCommand) > 0 {
		fmt.Fprintln(w, "Messages by Command:")
		for c := wire.CommandPresentation; c <= wire.CommandStream; c++ {
			if count := stats.MessagesByCommand[c]; count > 0 {
				fmt.Fprintf(w, "  %-14s %d\n", "C_"+c.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.Nodes) > 0 {
		ids := make([]int, 0, len(stats.Nodes))
		for id := range stats.Nodes {
			ids = append(ids, int(id))
		}
		sort.Ints(ids)

		fmt.Fprintf(w, "Nodes: %d\n", len(ids))
		for _, id := range ids {
			n := stats.Nodes[uint8(id)]
			fmt.Fprintf(w, "  node %3d: %d messages, %d acks, last %s\n",
				id, n.Messages, n.Acks, n.LastSeen.Format(time.RFC3339))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenSessionID(s.id), s.stats.Events, duration)
			if s.stats.RemoteAddr != "" {
				fmt.Fprintf(w, "           Remote: %s\n", s.stats.RemoteAddr)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
