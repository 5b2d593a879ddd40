package pager

import (
	"encoding/binary"
	"fmt"
)

// slotEntrySize is the size of one footer slot entry: a 2-byte offset and
// a 2-byte length, both little-endian uint16. The slot directory grows
// backward from the end of the page as slots are allocated — the opposite
// direction from the teacher's slotted_page.go, which grows its directory
// forward from right after the header. LiteDB's layout needs the footer
// end fixed at PageSize so the free-byte calculation in page.go doesn't
// need to know the slot count up front.
const slotEntrySize = 4

// slotEntry is one footer directory entry. A tombstoned (deleted) slot has
// Length == 0 and is eligible for reuse by a later InsertRecord.
type slotEntry struct {
	Offset uint16
	Length uint16
}

func slotOffset(slotIndex byte) int {
	return PageSize - (int(slotIndex)+1)*slotEntrySize
}

func readSlot(buf []byte, slotIndex byte) slotEntry {
	o := slotOffset(slotIndex)
	return slotEntry{
		Offset: binary.LittleEndian.Uint16(buf[o:]),
		Length: binary.LittleEndian.Uint16(buf[o+2:]),
	}
}

func writeSlot(buf []byte, slotIndex byte, e slotEntry) {
	o := slotOffset(slotIndex)
	binary.LittleEndian.PutUint16(buf[o:], e.Offset)
	binary.LittleEndian.PutUint16(buf[o+2:], e.Length)
}

// GetRecord returns a copy of the record stored at slotIndex.
func GetRecord(buf []byte, slotIndex byte) ([]byte, error) {
	h := ReadHeader(buf)
	if slotIndex > h.HighestIndex {
		return nil, fmt.Errorf("pager: slot %d out of range (highest %d)", slotIndex, h.HighestIndex)
	}
	e := readSlot(buf, slotIndex)
	if e.Length == 0 {
		return nil, fmt.Errorf("pager: slot %d is empty", slotIndex)
	}
	out := make([]byte, e.Length)
	copy(out, buf[e.Offset:int(e.Offset)+int(e.Length)])
	return out, nil
}

// InsertRecord stores data in the first free slot (reusing a tombstoned
// slot index if one exists, else allocating a new one) and returns its
// slot index. Callers must ensure FreeBytes(buf) >= len(data)+slotEntrySize
// beforehand (defragmenting first if not); InsertRecord does not
// defragment implicitly so the caller can decide whether defragmenting is
// worth the cost.
func InsertRecord(buf []byte, data []byte) (byte, error) {
	h := ReadHeader(buf)

	slotIndex, isNew := findFreeSlot(buf, h)
	// footerSize already includes the new slot's entry when isNew.
	footerSize := footerSizeFor(h, slotIndex, isNew)
	needed := len(data)
	if int(h.NextFreePosition)+needed > PageSize-footerSize {
		return 0, fmt.Errorf("pager: page full, need %d bytes", needed)
	}

	offset := h.NextFreePosition
	copy(buf[offset:], data)
	writeSlot(buf, slotIndex, slotEntry{Offset: offset, Length: uint16(len(data))})

	h.NextFreePosition += uint16(len(data))
	h.UsedBytes += uint16(len(data))
	h.ItemsCount++
	if isNew {
		h.HighestIndex = slotIndex
	}
	h.Write(buf)
	return slotIndex, nil
}

func findFreeSlot(buf []byte, h Header) (slotIndex byte, isNew bool) {
	if h.ItemsCount == 0 && h.HighestIndex == 0 {
		return 0, true
	}
	for i := 0; i <= int(h.HighestIndex); i++ {
		if readSlot(buf, byte(i)).Length == 0 {
			return byte(i), false
		}
	}
	return h.HighestIndex + 1, true
}

func footerSizeFor(h Header, slotIndex byte, isNew bool) int {
	highest := h.HighestIndex
	if isNew && slotIndex > highest {
		highest = slotIndex
	}
	return (int(highest) + 1) * slotEntrySize
}

// DeleteRecord tombstones the record at slotIndex. Its bytes remain in the
// page body as fragmentation until Defragment runs.
func DeleteRecord(buf []byte, slotIndex byte) error {
	h := ReadHeader(buf)
	if slotIndex > h.HighestIndex {
		return fmt.Errorf("pager: slot %d out of range", slotIndex)
	}
	e := readSlot(buf, slotIndex)
	if e.Length == 0 {
		return fmt.Errorf("pager: slot %d already empty", slotIndex)
	}
	writeSlot(buf, slotIndex, slotEntry{})
	h.ItemsCount--
	h.UsedBytes -= e.Length
	h.FragmentedBytes += e.Length
	h.Write(buf)
	return nil
}

// UpdateRecord replaces the record at slotIndex with data, keeping the
// slot index stable (other pages reference records by (page id, slot), so
// the index must never move). A shrink is rewritten in place and the
// freed tail counted as fragmentation; a grow is appended at the current
// cursor and the old bytes tombstoned as fragmentation.
func UpdateRecord(buf []byte, slotIndex byte, data []byte) error {
	h := ReadHeader(buf)
	if slotIndex > h.HighestIndex {
		return fmt.Errorf("pager: slot %d out of range", slotIndex)
	}
	e := readSlot(buf, slotIndex)
	if e.Length == 0 {
		return fmt.Errorf("pager: slot %d is empty", slotIndex)
	}
	if len(data) <= int(e.Length) {
		copy(buf[e.Offset:], data)
		shrink := int(e.Length) - len(data)
		writeSlot(buf, slotIndex, slotEntry{Offset: e.Offset, Length: uint16(len(data))})
		h.UsedBytes -= uint16(shrink)
		h.FragmentedBytes += uint16(shrink)
		h.Write(buf)
		return nil
	}
	footerSize := (int(h.HighestIndex) + 1) * slotEntrySize
	if int(h.NextFreePosition)+len(data) > PageSize-footerSize {
		return fmt.Errorf("pager: page full, need %d more bytes", len(data)-int(e.Length))
	}
	newOffset := h.NextFreePosition
	copy(buf[newOffset:], data)
	writeSlot(buf, slotIndex, slotEntry{Offset: newOffset, Length: uint16(len(data))})
	h.NextFreePosition += uint16(len(data))
	h.UsedBytes += uint16(len(data)) - e.Length
	h.FragmentedBytes += e.Length
	h.Write(buf)
	return nil
}

// Defragment compacts live records toward the header, eliminating
// fragmentation and resetting the append cursor.
func Defragment(buf []byte) {
	h := ReadHeader(buf)
	type live struct {
		slot byte
		data []byte
	}
	var records []live
	for i := 0; i <= int(h.HighestIndex); i++ {
		e := readSlot(buf, byte(i))
		if e.Length == 0 {
			continue
		}
		data := make([]byte, e.Length)
		copy(data, buf[e.Offset:int(e.Offset)+int(e.Length)])
		records = append(records, live{slot: byte(i), data: data})
	}

	cursor := uint16(PageHeaderSize)
	for _, r := range records {
		copy(buf[cursor:], r.data)
		writeSlot(buf, r.slot, slotEntry{Offset: cursor, Length: uint16(len(r.data))})
		cursor += uint16(len(r.data))
	}
	h.NextFreePosition = cursor
	h.FragmentedBytes = 0
	h.Write(buf)
}
