package usecases

import (
	"sync"
	"time"

	"quizsalon/internal/infra/logger"
)

// Timings agrupa os atrasos das transições automáticas de um salão.
type Timings struct {
	CountdownTick   time.Duration // intervalo entre os ticks do compte à rebours
	QuickStartDelay time.Duration // espera antes de iniciar um salão rápido cheio
	EmptyGrace      time.Duration // espera antes de apagar um salão vazio
	ResultLinger    time.Duration // tempo de exibição do classement antes de apagar o salão
	StoreRetry      time.Duration // espera entre tentativas de liberar a vaga no banco
}

// DefaultTimings são os valores de produção.
func DefaultTimings() Timings {
	return Timings{
		CountdownTick:   time.Second,
		QuickStartDelay: time.Second,
		EmptyGrace:      10 * time.Second,
		ResultLinger:    60 * time.Second,
		StoreRetry:      time.Second,
	}
}

// CountdownSeconds é a duração do compte à rebours, em ticks.
const CountdownSeconds = 3

// storeRetryAttempts limita as novas tentativas de liberar uma vaga.
const storeRetryAttempts = 5

// Scheduler executa tarefas atrasadas com o lock do salão, o mesmo domínio de
// serialização dos comandos. A tarefa deve revalidar o estado ao disparar.
type Scheduler struct {
	lock func(roomID int64) func()

	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
	wg      sync.WaitGroup
}

func NewScheduler(lock func(roomID int64) func()) *Scheduler {
	return &Scheduler{lock: lock, timers: make(map[*time.Timer]struct{})}
}

// After agenda fn para daqui a d.
func (s *Scheduler) After(roomID int64, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		defer s.wg.Done()

		s.mu.Lock()
		delete(s.timers, t)
		stopped := s.stopped
		s.mu.Unlock()
		if stopped {
			return
		}

		unlock := s.lock(roomID)
		defer unlock()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Tarefa agendada falhou", "salon", roomID, "panic", r)
			}
		}()
		fn()
	})
	s.timers[t] = struct{}{}
}

// Pending devolve o número de tarefas ainda não disparadas.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancela as tarefas pendentes e espera as que já estão rodando.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for t := range s.timers {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.timers, t)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
