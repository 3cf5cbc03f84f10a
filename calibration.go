/*
Calibration record.

One calibration is result of comparing local clock against one server supplied timestamp.
Record keeps inputs of decision so it can be re-evaluated and stored in binary form
*/

package timeadjuster

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const RECORDSIZE_CALIBRATION = 36 // 8+4+8+8+8

//Calibration is outcome of single Calibrate call
type Calibration struct {
	LocalNow   EpochMs //local clock when calibrated
	LocalTZ    int32   //minutes, positive west
	Server     EpochMs //server supplied timestamp
	Tolerance  int64   //lag tolerance in ms at time of calibration
	Adjustment int64   //result. serverNow = localNow - Adjustment
}

//SolveCalibration runs lag tolerance decision rule. Adjustment is snapped to pure timezone shift if skew is within tolerance
func SolveCalibration(localNow EpochMs, localTZ int32, server EpochMs, tolerance int64) Calibration {
	result := Calibration{
		LocalNow:  localNow,
		LocalTZ:   localTZ,
		Server:    server,
		Tolerance: tolerance,
	}
	raw := result.Raw()
	expected := result.Expected()
	if absMs(raw-expected) < tolerance { //so small that it is rather net lag than wrong clock
		result.Adjustment = expected
	} else {
		result.Adjustment = raw
	}
	return result
}

//LocalUTC local wall clock reinterpreted as UTC
func (p *Calibration) LocalUTC() EpochMs {
	return p.LocalNow - EpochMs(TimeLapse(int64(p.LocalTZ), Min))
}

//Raw is measured skew between local UTC and server timestamp
func (p *Calibration) Raw() int64 {
	return int64(p.LocalUTC() - p.Server)
}

//Expected is adjustment when clocks agree and only timezone differs
func (p *Calibration) Expected() int64 {
	return -TimeLapse(int64(p.LocalTZ), Min)
}

//Snapped tells was measured skew treated as network lag
func (p *Calibration) Snapped() bool {
	return absMs(p.Raw()-p.Expected()) < p.Tolerance
}

//ToBinary creates fixed size little endian presentation
func (p *Calibration) ToBinary() ([]byte, error) {
	if p.Tolerance < 0 {
		return nil, fmt.Errorf("ToBinary: negative tolerance %v", p.Tolerance)
	}
	buf := new(bytes.Buffer)
	for _, v := range []any{int64(p.LocalNow), p.LocalTZ, int64(p.Server), p.Tolerance, p.Adjustment} {
		err := binary.Write(buf, binary.LittleEndian, v)
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

//ParseCalibration parses Calibration from binary format
func ParseCalibration(raw []byte) (Calibration, error) {
	if len(raw) != RECORDSIZE_CALIBRATION {
		return Calibration{}, fmt.Errorf("invalid size %v for calibration", len(raw))
	}
	result := Calibration{
		LocalNow:   EpochMs(binary.LittleEndian.Uint64(raw[0:8])),
		LocalTZ:    int32(binary.LittleEndian.Uint32(raw[8:12])),
		Server:     EpochMs(binary.LittleEndian.Uint64(raw[12:20])),
		Tolerance:  int64(binary.LittleEndian.Uint64(raw[20:28])),
		Adjustment: int64(binary.LittleEndian.Uint64(raw[28:36])),
	}
	if result.Tolerance < 0 { //Catch errors early but return result still
		return result, fmt.Errorf("ParseCalibration: negative tolerance %v", result.Tolerance)
	}
	return result, nil
}

func (p Calibration) String() string {
	return fmt.Sprintf("%v\t%v\t%v\t%v\t%v", p.LocalNow, p.LocalTZ, p.Server, p.Tolerance, p.Adjustment)
}
