package indices

import (
	"fmt"
	"sync"

	"oficina/authority"
	"oficina/bizerror"
	"oficina/domain/previsao"
	"oficina/event"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc     = IndicesFullSync
	ScheduleNewSyncRunFunc  = ScheduleNewSyncRun
	PendingSyncRecoveryFunc = PendingSyncRecovery

	SyncBatchSize = 500
)

func indexRobotSession() *session.Session {
	return &session.Session{
		Identity: session.Identity{ID: 10, Name: "index-robot"},
		Perms:    authority.Permissions{authority.RoleSystemAdmin},
	}
}

// ScheduleNewSyncRun starts a full re-index in the background. At most one
// run at a time; a second request while one is running is a no-op.
func ScheduleNewSyncRun(s *session.Session) (bool, error) {
	if !s.Perms.HasRole(authority.RoleSystemAdmin) {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		IndicesFullSyncFunc()
	}()
	waitRunning.Wait()
	return true, nil
}

// IndicesFullSync walks every forecast in id order and re-indexes it.
func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("error on indices full sync: %v", ret)
			}
		}
	}()

	robot := indexRobotSession()
	lastId := types.ID(0)
	for {
		previsoes, err := previsao.LoadPrevisoesFunc(lastId, SyncBatchSize)
		if err != nil {
			logrus.Warnf("indices full sync: error loading previsoes after %d: %v", lastId, err)
			return err
		}
		if len(previsoes) == 0 {
			logrus.Infof("indices full sync: no more previsoes to index")
			return nil
		}

		if err := IndexPrevisoes(previsoes, robot); err != nil {
			logrus.Warnf("indices full sync: error indexing previsoes after %d: %v", lastId, err)
		}
		lastId = previsoes[len(previsoes)-1].ID
	}
}

// PendingSyncRecovery replays events whose handlers failed, in the
// background. Successfully replayed events are marked synced by the handler
// fan-out itself.
func PendingSyncRecovery(s *session.Session) error {
	if !s.Perms.HasRole(authority.RoleSystemAdmin) {
		return bizerror.ErrForbidden
	}

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		lastId := types.ID(0)
		for {
			records, err := event.LoadUnsyncedEventsFunc(lastId, SyncBatchSize)
			if err != nil {
				logrus.Warnf("pending sync recovery: error loading events after %d: %v", lastId, err)
				return
			}
			if len(records) == 0 {
				logrus.Infof("pending sync recovery: no more pending events")
				return
			}
			for i := range records {
				event.InvokeHandlersFunc(&records[i])
				lastId = records[i].ID
			}
		}
	}()
	waitRunning.Wait()
	return nil
}
