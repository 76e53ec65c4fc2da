package usecases_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"quizsalon/internal/adapters/persistence"
	"quizsalon/internal/application/usecases"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/friendship"
	"quizsalon/internal/domain/history"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/domain/salon"

	"github.com/stretchr/testify/require"
)

// ---- salões ----

type fakeRooms struct {
	mu     sync.Mutex
	rooms  map[int64]*salon.Room
	nextID int64

	failIncrement   error
	failMarkStarted error
	failList        error
	failDecrement   error
}

func newFakeRooms() *fakeRooms {
	return &fakeRooms{rooms: make(map[int64]*salon.Room)}
}

func (f *fakeRooms) Create(_ context.Context, room *salon.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	room.ID = f.nextID
	cp := *room
	f.rooms[room.ID] = &cp
	return nil
}

func (f *fakeRooms) FindByID(_ context.Context, id int64) (*salon.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRooms) FindOpenQuick(_ context.Context) (*salon.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.rooms))
	for id := range f.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		r := f.rooms[id]
		if r.Kind == salon.KindQuick && !r.Started && r.CurrentPlayers < r.MaxPlayers {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRooms) ListOpen(_ context.Context, kind salon.Kind) ([]*salon.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	out := []*salon.Room{}
	for _, r := range f.rooms {
		if r.Kind == kind && !r.Started {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRooms) IncrementPlayers(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncrement != nil {
		return false, f.failIncrement
	}
	r, ok := f.rooms[id]
	if !ok || r.Started || r.CurrentPlayers >= r.MaxPlayers {
		return false, nil
	}
	r.CurrentPlayers++
	return true, nil
}

func (f *fakeRooms) DecrementPlayers(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDecrement != nil {
		return f.failDecrement
	}
	if r, ok := f.rooms[id]; ok && r.CurrentPlayers > 0 {
		r.CurrentPlayers--
	}
	return nil
}

func (f *fakeRooms) MarkStarted(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMarkStarted != nil {
		return f.failMarkStarted
	}
	if r, ok := f.rooms[id]; ok {
		r.Started = true
	}
	return nil
}

func (f *fakeRooms) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, id)
	return nil
}

// setFailDecrement troca o erro com o lock, pois as novas tentativas rodam em timers.
func (f *fakeRooms) setFailDecrement(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDecrement = err
}

func (f *fakeRooms) get(id int64) (salon.Room, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return salon.Room{}, false
	}
	return *r, true
}

// ---- perguntas ----

type fakeQuestions struct {
	mu          sync.Mutex
	byLevel     map[int][]quiz.Question
	correct     map[[2]int64]bool
	labels      map[int64]string
	canonical   map[int64]string
	failCorrect error
	created     []quiz.Draft
}

func newFakeQuestions() *fakeQuestions {
	return &fakeQuestions{
		byLevel:   make(map[int][]quiz.Question),
		correct:   make(map[[2]int64]bool),
		labels:    make(map[int64]string),
		canonical: make(map[int64]string),
	}
}

// add cadastra uma pergunta; a primeira alternativa é a correta.
func (f *fakeQuestions) add(id int64, difficulty int, options ...string) {
	q := quiz.Question{ID: id, Label: "Question", Difficulty: difficulty}
	for i, label := range options {
		answerID := id*10 + int64(i)
		q.AnswerOptions = append(q.AnswerOptions, quiz.AnswerOption{ID: answerID, Label: label})
		f.correct[[2]int64{id, answerID}] = i == 0
		f.labels[answerID] = label
	}
	if len(options) > 0 {
		f.canonical[id] = options[0]
	}
	f.byLevel[difficulty] = append(f.byLevel[difficulty], q)
}

func (f *fakeQuestions) FindByDifficulty(_ context.Context, difficulty int) ([]quiz.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byLevel[difficulty], nil
}

func (f *fakeQuestions) AnswerCorrectness(_ context.Context, questionID, answerID int64) (bool, string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCorrect != nil {
		return false, "", false, f.failCorrect
	}
	c, ok := f.correct[[2]int64{questionID, answerID}]
	return c, f.labels[answerID], ok, nil
}

func (f *fakeQuestions) CanonicalAnswer(_ context.Context, questionID int64) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.canonical[questionID]
	return c, ok, nil
}

func (f *fakeQuestions) FindByID(_ context.Context, id int64) (*quiz.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, level := range f.byLevel {
		if q, ok := quiz.FindQuestion(level, id); ok {
			return &q, nil
		}
	}
	return nil, nil
}

func (f *fakeQuestions) Create(_ context.Context, d quiz.Draft) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	return int64(100 + len(f.created)), nil
}

// fixedSource devolve sempre as mesmas perguntas, com o tipo já definido.
type fixedSource struct {
	questions []quiz.Question
	err       error
}

func (s *fixedSource) Pick(context.Context, int) ([]quiz.Question, error) {
	return s.questions, s.err
}

// ---- perfis e histórico ----

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[int64]*player.Profile

	// unreadable faz FindByID falhar para esse perfil
	unreadable int64
}

func newFakeProfiles(ps ...player.Profile) *fakeProfiles {
	f := &fakeProfiles{profiles: make(map[int64]*player.Profile)}
	for _, p := range ps {
		cp := p
		f.profiles[p.ID] = &cp
	}
	return f
}

func (f *fakeProfiles) Create(_ context.Context, p *player.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = int64(len(f.profiles) + 1)
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfiles) FindByID(_ context.Context, id int64) (*player.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != 0 && id == f.unreadable {
		return nil, apperr.Store("buscar perfil", errors.New("timeout"))
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) FindByUserID(_ context.Context, userID string) (*player.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) UpdateRating(_ context.Context, id int64, elo int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		p.Elo = elo
	}
	return nil
}

func (f *fakeProfiles) FindByPseudo(_ context.Context, pseudo string) (*player.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found *player.Profile
	for _, p := range f.profiles {
		if p.Pseudo == pseudo && (found == nil || p.ID < found.ID) {
			found = p
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, id int64, pseudo, avatar string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		p.Pseudo = pseudo
		p.Avatar = avatar
	}
	return nil
}

func (f *fakeProfiles) elo(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[id].Elo
}

type fakeAvatars struct {
	avatars []player.Avatar
}

func (f *fakeAvatars) List(context.Context) ([]player.Avatar, error) {
	return f.avatars, nil
}

func (f *fakeAvatars) FindByID(_ context.Context, id int64) (*player.Avatar, error) {
	for _, a := range f.avatars {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

// ---- amizades ----

type fakeFriendships struct {
	mu       sync.Mutex
	profiles *fakeProfiles
	rels     []friendship.Friendship
}

func (f *fakeFriendships) indexBetween(a, b int64) int {
	for i, r := range f.rels {
		if (r.RequesterID == a && r.ReceiverID == b) || (r.RequesterID == b && r.ReceiverID == a) {
			return i
		}
	}
	return -1
}

func (f *fakeFriendships) FindBetween(_ context.Context, a, b int64) (*friendship.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexBetween(a, b); i >= 0 {
		cp := f.rels[i]
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeFriendships) Create(_ context.Context, fr *friendship.Friendship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rels = append(f.rels, *fr)
	return nil
}

func (f *fakeFriendships) Accept(_ context.Context, requesterID, receiverID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rels {
		if r.RequesterID == requesterID && r.ReceiverID == receiverID && r.Status == friendship.StatusPending {
			f.rels[i].Status = friendship.StatusAccepted
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendships) DeletePending(_ context.Context, requesterID, receiverID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rels {
		if r.RequesterID == requesterID && r.ReceiverID == receiverID && r.Status == friendship.StatusPending {
			f.rels = append(f.rels[:i], f.rels[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendships) DeleteBetween(_ context.Context, a, b int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexBetween(a, b); i >= 0 {
		f.rels = append(f.rels[:i], f.rels[i+1:]...)
	}
	return nil
}

func (f *fakeFriendships) ListFriends(ctx context.Context, profileID int64) ([]player.Profile, error) {
	f.mu.Lock()
	var ids []int64
	for _, r := range f.rels {
		if r.Status == friendship.StatusAccepted && (r.RequesterID == profileID || r.ReceiverID == profileID) {
			ids = append(ids, r.Other(profileID))
		}
	}
	f.mu.Unlock()
	return f.load(ctx, ids)
}

func (f *fakeFriendships) ListPendingFor(ctx context.Context, receiverID int64) ([]player.Profile, error) {
	f.mu.Lock()
	var ids []int64
	for _, r := range f.rels {
		if r.Status == friendship.StatusPending && r.ReceiverID == receiverID {
			ids = append(ids, r.RequesterID)
		}
	}
	f.mu.Unlock()
	return f.load(ctx, ids)
}

func (f *fakeFriendships) load(ctx context.Context, ids []int64) ([]player.Profile, error) {
	out := []player.Profile{}
	for _, id := range ids {
		if p, _ := f.profiles.FindByID(ctx, id); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeHistories struct {
	mu      sync.Mutex
	records []history.Record
}

func (f *fakeHistories) Append(_ context.Context, r *history.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = int64(len(f.records) + 1)
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeHistories) ListByProfile(_ context.Context, profileID int64, limit, offset int) ([]*history.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*history.Record{}
	for i := range f.records {
		if f.records[i].ProfileID == profileID {
			cp := f.records[i]
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return []*history.Record{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeHistories) all() []history.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]history.Record(nil), f.records...)
}

// ---- hub ----

type sentEvent struct {
	Topic  string
	ConnID string
	Event  usecases.Event
}

type recordingHub struct {
	mu     sync.Mutex
	subs   map[string]map[string]bool
	events []sentEvent
}

func newRecordingHub() *recordingHub {
	return &recordingHub{subs: make(map[string]map[string]bool)}
}

func (h *recordingHub) Subscribe(connID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[string]bool)
	}
	h.subs[topic][connID] = true
}

func (h *recordingHub) Unsubscribe(connID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[topic], connID)
}

func (h *recordingHub) Publish(topic string, message any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, sentEvent{Topic: topic, Event: message.(usecases.Event)})
}

func (h *recordingHub) SendTo(connID string, message any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, sentEvent{ConnID: connID, Event: message.(usecases.Event)})
}

func (h *recordingHub) Subscribers(topic string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.subs[topic]))
	for id := range h.subs[topic] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (h *recordingHub) subscribed(connID, topic string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs[topic][connID]
}

// ofType devolve os eventos de um tipo, na ordem de envio.
func (h *recordingHub) ofType(typ string) []sentEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []sentEvent
	for _, e := range h.events {
		if e.Event["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}

// typesOnTopic devolve a sequência de tipos publicada num tópico.
func (h *recordingHub) typesOnTopic(topic string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.events {
		if e.Topic == topic {
			out = append(out, e.Event["type"].(string))
		}
	}
	return out
}

// ---- ambiente ----

type env struct {
	rooms     *fakeRooms
	questions *fakeQuestions
	source    *fixedSource
	profiles  *fakeProfiles
	histories *fakeHistories
	hub       *recordingHub
	store     *persistence.InMemorySessionStore
	sched     *usecases.Scheduler
	lifecycle *usecases.LifecycleUseCases
	game      *usecases.GameSessionUseCases
	match     *usecases.MatchmakingUseCases
}

func testTimings() usecases.Timings {
	return usecases.Timings{
		CountdownTick:   2 * time.Millisecond,
		QuickStartDelay: 5 * time.Millisecond,
		EmptyGrace:      60 * time.Millisecond,
		ResultLinger:    40 * time.Millisecond,
		StoreRetry:      5 * time.Millisecond,
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		rooms:     newFakeRooms(),
		questions: newFakeQuestions(),
		histories: &fakeHistories{},
		hub:       newRecordingHub(),
		store:     persistence.NewInMemorySessionStore(),
		profiles: newFakeProfiles(
			player.Profile{ID: 1, UserID: "u1", Pseudo: "alice", Elo: 100},
			player.Profile{ID: 2, UserID: "u2", Pseudo: "bob", Elo: 5},
			player.Profile{ID: 3, UserID: "u3", Pseudo: "chloe", Elo: 50},
			player.Profile{ID: 4, UserID: "u4", Pseudo: "david", Elo: 0},
		),
	}

	e.questions.add(1, 2, "Paris", "Lyon", "Marseille")
	e.questions.add(2, 2, "Londres", "Manchester")
	qcm := e.questions.byLevel[2][0]
	qcm.Kind = quiz.KindQCM
	input := e.questions.byLevel[2][1]
	input.Kind = quiz.KindInput
	e.source = &fixedSource{questions: []quiz.Question{qcm, input}}

	timings := testTimings()
	e.sched = usecases.NewScheduler(e.store.Lock)
	t.Cleanup(e.sched.Stop)

	e.lifecycle = usecases.NewLifecycleUseCases(e.rooms, e.store, e.hub, e.sched, timings)
	e.game = usecases.NewGameSessionUseCases(
		e.rooms, e.store, e.hub, e.sched, e.lifecycle,
		e.source,
		usecases.NewAnswerVerifier(e.questions),
		usecases.NewRatingUseCases(e.profiles, e.histories),
		timings,
	)
	e.match = usecases.NewMatchmakingUseCases(e.rooms, e.lifecycle)
	return e
}

func (e *env) conn(id string, profileID int64) *player.Connection {
	p, _ := e.profiles.FindByID(context.Background(), profileID)
	c := player.NewConnection(id, player.Identity{UserID: p.UserID, Profile: *p})
	e.hub.Subscribe(id, salon.LobbyTopic)
	return c
}

func (e *env) customRoom(t *testing.T, maxPlayers int) *salon.Room {
	t.Helper()
	room, err := salon.NewRoom("Culture G", 2, salon.KindCustom, maxPlayers)
	require.NoError(t, err)
	require.NoError(t, e.rooms.Create(context.Background(), room))
	return room
}

// phase lê a fase com o lock do salão; "" se o salão não está em memória.
func (e *env) phase(roomID int64) salon.Phase {
	unlock := e.store.Lock(roomID)
	defer unlock()
	st := e.store.Get(roomID)
	if st == nil {
		return ""
	}
	return st.Phase
}

func (e *env) player(roomID int64, connID string) salon.PlayerSession {
	unlock := e.store.Lock(roomID)
	defer unlock()
	ps, _ := e.store.Get(roomID).Player(connID)
	return *ps
}

func (e *env) waitPhase(t *testing.T, roomID int64, phase salon.Phase) {
	t.Helper()
	require.Eventually(t, func() bool { return e.phase(roomID) == phase }, time.Second, 2*time.Millisecond)
}

func answerID(id int64) *int64 { return &id }

func answerText(s string) *string { return &s }
