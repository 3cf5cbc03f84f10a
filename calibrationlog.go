/*
Struct CalibrationLog keeps history of calibrations on fixed record storage.
Content is restored at creation and cached in mem for fast access.
*/

package timeadjuster

import (
	"fmt"
	"sync"

	"github.com/hjkoskel/fixregsto"
)

type CalibrationLog struct {
	mu  sync.Mutex
	sto fixregsto.FixRegSto //Store and restore here
	mem CalibrationList     //Primary place to keep values
}

//CreateCalibrationLog restores content from FixRegSto storage and initializes CalibrationLog struct
func CreateCalibrationLog(storage fixregsto.FixRegSto) (*CalibrationLog, error) {
	raw, readErr := storage.ReadAll()
	if readErr != nil {
		return nil, fmt.Errorf("error on ReadAll on CreateCalibrationLog err=%w", readErr)
	}
	mem, errParse := ParseCalibrationList(raw)
	if errParse != nil {
		return nil, fmt.Errorf("restoring calibration log err=%w", errParse)
	}
	return &CalibrationLog{sto: storage, mem: mem}, nil
}

//Insert appends calibration. Records are kept in insertion order, local clock may have been stepped back between them
func (p *CalibrationLog) Insert(c Calibration) error {
	binarr, errbin := c.ToBinary()
	if errbin != nil {
		return fmt.Errorf("Insert error, binary coding %#v failed %w", c, errbin)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, errWrite := p.sto.Write(binarr)
	if errWrite != nil {
		return errWrite
	}
	p.mem = append(p.mem, c)
	return nil
}

func (p *CalibrationLog) GetLatestN(n int) CalibrationList {
	p.mu.Lock()
	defer p.mu.Unlock()
	maxN := p.mem.Len()
	if maxN < n {
		n = maxN
	}
	if n < 0 {
		n = 0
	}
	return append(CalibrationList{}, p.mem[maxN-n:]...)
}

func (p *CalibrationLog) All() CalibrationList {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append(CalibrationList{}, p.mem...)
}

func (p *CalibrationLog) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mem.Len()
}
