// Package transport управляет живым websocket-соединением с сервером:
// присутствие, типизированная доставка входящих сообщений подписчикам
// и автоматическое переподключение после аварийного разрыва.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/pkg/api"
)

// CloseCodeShutdown — код намеренного завершения сессии.
// Разрыв с этим кодом не порождает переподключение ни на одной стороне.
const CloseCodeShutdown = 4000

// DefaultReconnectDelay — пауза перед попыткой переподключения
const DefaultReconnectDelay = 3 * time.Second

// ErrNotConnected возвращается при попытке отправки без открытого соединения
var ErrNotConnected = errors.New("transport: not connected")

// State представляет состояние жизненного цикла соединения
type State int

// Состояния соединения
const (
	StateDisconnected State = iota // соединения нет, переподключение возможно
	StateConnecting                // идет установка соединения
	StateOpen                      // соединение открыто, присутствие объявлено
	StateClosing                   // инициировано намеренное закрытие
	StateClosed                    // закрыто намеренно, переподключения не будет
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handler обрабатывает входящее сообщение одного типа
type Handler func(msg api.Message)

// Config описывает параметры менеджера соединения
type Config struct {
	Scheduler      Scheduler
	Logger         *slog.Logger
	URL            string // ws:// или wss:// endpoint
	Token          string // access-токен, также источник идентификации
	ReconnectDelay time.Duration
}

// Manager владеет websocket-соединением и его жизненным циклом
type Manager struct {
	scheduler Scheduler
	logger    *slog.Logger

	mu              sync.Mutex
	conn            *websocket.Conn
	state           State
	gen             uint64 // поколение соединения, отсекает устаревшие read-циклы
	cancelReconnect CancelFunc

	handlers      map[string]map[uint64]Handler
	stateHandlers map[uint64]func(State)
	nextSubID     uint64

	presence map[string]api.PresenceAnnouncement
	lastErr  *api.ErrorPayload

	identity       Identity
	url            string
	token          string
	reconnectDelay time.Duration
}

// NewManager creates a connection manager for the given endpoint.
// Идентификация извлекается из токена до первого подключения.
func NewManager(cfg Config) (*Manager, error) {
	identity, err := IdentityFromToken(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	if cfg.Scheduler == nil {
		cfg.Scheduler = NewTimerScheduler()
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Manager{
		scheduler:      cfg.Scheduler,
		logger:         cfg.Logger,
		state:          StateDisconnected,
		handlers:       make(map[string]map[uint64]Handler),
		stateHandlers:  make(map[uint64]func(State)),
		presence:       make(map[string]api.PresenceAnnouncement),
		identity:       identity,
		url:            cfg.URL,
		token:          cfg.Token,
		reconnectDelay: cfg.ReconnectDelay,
	}, nil
}

// Identity возвращает идентификацию текущей сессии
func (m *Manager) Identity() Identity {
	return m.identity
}

// State возвращает текущее состояние соединения
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError возвращает последнюю ошибку, присланную сервером
func (m *Manager) LastError() *api.ErrorPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Presence возвращает снимок известного списка присутствия
func (m *Manager) Presence() []api.PresenceAnnouncement {
	m.mu.Lock()
	defer m.mu.Unlock()

	roster := make([]api.PresenceAnnouncement, 0, len(m.presence))
	for _, p := range m.presence {
		roster = append(roster, p)
	}
	return roster
}

// Subscribe регистрирует обработчик сообщений одного типа.
// Возвращенная функция снимает подписку.
func (m *Manager) Subscribe(msgType string, handler Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSubID++
	id := m.nextSubID

	if m.handlers[msgType] == nil {
		m.handlers[msgType] = make(map[uint64]Handler)
	}
	m.handlers[msgType][id] = handler

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers[msgType], id)
	}
}

// OnStateChange регистрирует обработчик смены состояния.
// Возвращенная функция снимает подписку.
func (m *Manager) OnStateChange(handler func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSubID++
	id := m.nextSubID
	m.stateHandlers[id] = handler

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.stateHandlers, id)
	}
}

// Connect устанавливает соединение и объявляет присутствие.
// Первое исходящее сообщение сессии — всегда presence.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateOpen, StateConnecting:
		m.mu.Unlock()
		return nil
	case StateClosing:
		m.mu.Unlock()
		return fmt.Errorf("transport: close in progress")
	}
	if m.cancelReconnect != nil {
		m.cancelReconnect()
		m.cancelReconnect = nil
	}
	m.setStateLocked(StateConnecting)
	m.mu.Unlock()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+m.token)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, m.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		m.mu.Lock()
		m.setStateLocked(StateDisconnected)
		m.scheduleReconnectLocked()
		m.mu.Unlock()
		return fmt.Errorf("failed to dial %s: %w", m.url, err)
	}

	announce := api.Message{
		Type:      api.MessageTypePresence,
		UserID:    m.identity.UserID,
		Timestamp: time.Now().UnixMilli(),
	}
	announce.Payload, _ = json.Marshal(api.PresenceAnnouncement{
		UserID:   m.identity.UserID,
		UserName: m.identity.UserName,
		Status:   api.PresenceOnline,
	})

	if err := conn.WriteJSON(announce); err != nil {
		conn.Close()
		m.mu.Lock()
		m.setStateLocked(StateDisconnected)
		m.scheduleReconnectLocked()
		m.mu.Unlock()
		return fmt.Errorf("failed to announce presence: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.gen++
	gen := m.gen
	m.setStateLocked(StateOpen)
	m.mu.Unlock()

	m.logger.Info("live transport connected", "url", m.url, "user_id", m.identity.UserID)

	go m.readLoop(conn, gen)

	return nil
}

// Send отправляет типизированное сообщение через открытое соединение.
// Возвращает ErrNotConnected, если соединения нет.
func (m *Manager) Send(msgType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := api.Message{
		Type:      msgType,
		UserID:    m.identity.UserID,
		Payload:   data,
		Timestamp: time.Now().UnixMilli(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateOpen || m.conn == nil {
		return ErrNotConnected
	}

	if err := m.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s message: %w", msgType, err)
	}

	return nil
}

// Close намеренно завершает сессию: отправляет close frame с кодом
// CloseCodeShutdown, отменяет отложенное переподключение и переводит
// менеджер в терминальное состояние.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return nil
	}
	if m.cancelReconnect != nil {
		m.cancelReconnect()
		m.cancelReconnect = nil
	}
	conn := m.conn
	m.conn = nil
	m.gen++ // активный read-цикл становится устаревшим
	m.setStateLocked(StateClosing)
	m.mu.Unlock()

	if conn != nil {
		frame := websocket.FormatCloseMessage(CloseCodeShutdown, "shutdown")
		deadline := time.Now().Add(time.Second)
		if err := conn.WriteControl(websocket.CloseMessage, frame, deadline); err != nil {
			m.logger.Debug("failed to send close frame", "error", err)
		}
		conn.Close()
	}

	m.mu.Lock()
	m.setStateLocked(StateClosed)
	m.mu.Unlock()

	m.logger.Info("live transport closed")
	return nil
}

// readLoop читает входящие сообщения до разрыва соединения.
// gen отсекает цикл, переживший свое соединение.
func (m *Manager) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		var msg api.Message
		if err := conn.ReadJSON(&msg); err != nil {
			m.handleDisconnect(gen, err)
			return
		}

		m.dispatch(msg)
	}
}

// dispatch применяет встроенные редьюсеры и раздает сообщение подписчикам
func (m *Manager) dispatch(msg api.Message) {
	m.mu.Lock()

	switch msg.Type {
	case api.MessageTypePresence:
		var p api.PresenceAnnouncement
		if err := json.Unmarshal(msg.Payload, &p); err == nil && p.UserID != "" {
			if p.Status == api.PresenceOffline {
				delete(m.presence, p.UserID)
			} else {
				m.presence[p.UserID] = p
			}
		}
	case api.MessageTypeError:
		var e api.ErrorPayload
		if err := json.Unmarshal(msg.Payload, &e); err == nil {
			m.lastErr = &e
			m.logger.Warn("server reported error", "code", e.Code, "message", e.Message)
		}
	}

	// Копия обработчиков, чтобы не держать mu во время вызовов
	subs := make([]Handler, 0, len(m.handlers[msg.Type]))
	for _, h := range m.handlers[msg.Type] {
		subs = append(subs, h)
	}
	m.mu.Unlock()

	for _, h := range subs {
		h(msg)
	}
}

// handleDisconnect переводит менеджер в состояние после разрыва.
// Намеренное завершение (свой Close или код CloseCodeShutdown от
// сервера) переподключение не планирует.
func (m *Manager) handleDisconnect(gen uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		// Устаревший цикл: соединение уже заменено или закрыто
		return
	}

	m.conn = nil

	if websocket.IsCloseError(err, CloseCodeShutdown, websocket.CloseNormalClosure) {
		m.logger.Info("server closed session deliberately")
		m.setStateLocked(StateClosed)
		return
	}

	m.logger.Warn("live transport disconnected", "error", err)
	m.setStateLocked(StateDisconnected)
	m.scheduleReconnectLocked()
}

// scheduleReconnectLocked планирует одну попытку переподключения.
// Вызывается под mu.
func (m *Manager) scheduleReconnectLocked() {
	if m.cancelReconnect != nil {
		return
	}

	m.logger.Info("scheduling reconnect", "delay", m.reconnectDelay)
	m.cancelReconnect = m.scheduler.Schedule(m.reconnectDelay, func() {
		m.mu.Lock()
		m.cancelReconnect = nil
		closed := m.state == StateClosed || m.state == StateClosing
		m.mu.Unlock()
		if closed {
			return
		}
		if err := m.Connect(context.Background()); err != nil {
			m.logger.Warn("reconnect attempt failed", "error", err)
		}
	})
}

// setStateLocked меняет состояние и уведомляет подписчиков.
// Вызывается под mu; обработчики вызываются асинхронно.
func (m *Manager) setStateLocked(next State) {
	if m.state == next {
		return
	}
	m.state = next

	for _, h := range m.stateHandlers {
		go h(next)
	}
}
