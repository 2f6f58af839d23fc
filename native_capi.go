package kuzu

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// C structs the API fills through out-parameters. They are allocated by the
// Go side and kept reachable by the engine's handle table.
type (
	cDatabase struct {
		database uintptr
	}
	cConnection struct {
		connection uintptr
	}
	cPreparedStatement struct {
		statement   uintptr
		boundValues uintptr
	}
	cQueryResult struct {
		result     uintptr
		ownedByCpp bool
	}
	cFlatTuple struct {
		tuple      uintptr
		ownedByCpp bool
	}
	cValue struct {
		value      uintptr
		ownedByCpp bool
	}
	cLogicalType struct {
		dataType uintptr
	}
	cInterval struct {
		months int32
		days   int32
		micros int64
	}
)

const kuzuSuccess = 0

// nativeLibrary is the resolved C API of one loaded shared library.
type nativeLibrary struct {
	handle  uintptr
	path    string
	version Version

	// Symbols taking 16 byte structs or the system config by value are
	// called through purego.SyscallN.
	symDatabaseInit      uintptr
	symValueCreateInt128 uintptr
	symValueCreateIntvl  uintptr
	symValueCreateID     uintptr

	databaseDestroy   func(db uintptr)
	connectionInit    func(db, out uintptr) int32
	connectionDestroy func(conn uintptr)
	// optional, nil when the library lacks them
	connectionInterrupt       func(conn uintptr)
	connectionSetQueryTimeout func(conn uintptr, ms uint64) int32

	connectionQuery   func(conn uintptr, query string, out uintptr) int32
	connectionPrepare func(conn uintptr, query string, out uintptr) int32
	connectionExecute func(conn, stmt, out uintptr) int32

	preparedStatementDestroy         func(stmt uintptr)
	preparedStatementIsSuccess       func(stmt uintptr) bool
	preparedStatementGetErrorMessage func(stmt uintptr) uintptr
	preparedStatementBindValue       func(stmt uintptr, name string, value uintptr) int32

	queryResultDestroy            func(res uintptr)
	queryResultIsSuccess          func(res uintptr) bool
	queryResultGetErrorMessage    func(res uintptr) uintptr
	queryResultGetNumColumns      func(res uintptr) uint64
	queryResultGetColumnName      func(res uintptr, i uint64, out *uintptr) int32
	queryResultGetNumTuples       func(res uintptr) uint64
	queryResultHasNext            func(res uintptr) bool
	queryResultGetNext            func(res, out uintptr) int32
	queryResultHasNextQueryResult func(res uintptr) bool
	queryResultGetNextQueryResult func(res, out uintptr) int32
	queryResultResetIterator      func(res uintptr)
	queryResultToString           func(res uintptr) uintptr

	flatTupleDestroy  func(tuple uintptr)
	flatTupleGetValue func(tuple uintptr, i uint64, out uintptr) int32
	flatTupleToString func(tuple uintptr) uintptr

	valueCreateNull             func() uintptr
	valueCreateNullWithDataType func(dataType uintptr) uintptr
	valueCreateBool             func(v bool) uintptr
	valueCreateInt8             func(v int8) uintptr
	valueCreateInt16            func(v int16) uintptr
	valueCreateInt32            func(v int32) uintptr
	valueCreateInt64            func(v int64) uintptr
	valueCreateUint8            func(v uint8) uintptr
	valueCreateUint16           func(v uint16) uintptr
	valueCreateUint32           func(v uint32) uintptr
	valueCreateUint64           func(v uint64) uintptr
	valueCreateFloat            func(v float32) uintptr
	valueCreateDouble           func(v float64) uintptr
	valueCreateString           func(v string) uintptr
	valueCreateDate             func(days int32) uintptr
	valueCreateTimestamp        func(micros int64) uintptr
	valueCreateTimestampNs      func(nanos int64) uintptr
	valueCreateTimestampMs      func(millis int64) uintptr
	valueCreateTimestampSec     func(secs int64) uintptr
	valueCreateTimestampTz      func(micros int64) uintptr

	valueClone       func(v uintptr) uintptr
	valueDestroy     func(v uintptr)
	valueIsNull      func(v uintptr) bool
	valueSetNull     func(v uintptr, null bool)
	valueGetDataType func(v, out uintptr)
	valueToString    func(v uintptr) uintptr

	dataTypeCreate  func(id int32, child uintptr, numElements uint64, out uintptr)
	dataTypeGetID   func(dataType uintptr) int32
	dataTypeDestroy func(dataType uintptr)

	valueGetBool        func(v uintptr, out *bool) int32
	valueGetInt8        func(v uintptr, out *int8) int32
	valueGetInt16       func(v uintptr, out *int16) int32
	valueGetInt32       func(v uintptr, out *int32) int32
	valueGetInt64       func(v uintptr, out *int64) int32
	valueGetUint8       func(v uintptr, out *uint8) int32
	valueGetUint16      func(v uintptr, out *uint16) int32
	valueGetUint32      func(v uintptr, out *uint32) int32
	valueGetUint64      func(v uintptr, out *uint64) int32
	valueGetInt128      func(v uintptr, out *[2]uint64) int32
	valueGetFloat       func(v uintptr, out *float32) int32
	valueGetDouble      func(v uintptr, out *float64) int32
	valueGetInternalID  func(v uintptr, out *[2]uint64) int32
	valueGetDate        func(v uintptr, out *int32) int32
	valueGetTimestamp   func(v uintptr, out *int64) int32
	valueGetTimestampNs func(v uintptr, out *int64) int32
	valueGetTimestampMs func(v uintptr, out *int64) int32
	valueGetTimestampS  func(v uintptr, out *int64) int32
	valueGetTimestampTz func(v uintptr, out *int64) int32
	valueGetInterval    func(v uintptr, out *cInterval) int32
	valueGetString      func(v uintptr, out *uintptr) int32
	valueGetUUID        func(v uintptr, out *uintptr) int32

	valueGetListSize          func(v uintptr, out *uint64) int32
	valueGetListElement       func(v uintptr, i uint64, out uintptr) int32
	valueGetStructNumFields   func(v uintptr, out *uint64) int32
	valueGetStructFieldName   func(v uintptr, i uint64, out *uintptr) int32
	valueGetStructFieldValue  func(v uintptr, i uint64, out uintptr) int32
	valueGetMapSize           func(v uintptr, out *uint64) int32
	valueGetMapKey            func(v uintptr, i uint64, out uintptr) int32
	valueGetMapValue          func(v uintptr, i uint64, out uintptr) int32
	valueGetRecursiveRelNodes func(v, out uintptr) int32
	valueGetRecursiveRelRels  func(v, out uintptr) int32

	nodeValGetIDVal           func(v, out uintptr) int32
	nodeValGetLabelVal        func(v, out uintptr) int32
	nodeValGetPropertySize    func(v uintptr, out *uint64) int32
	nodeValGetPropertyNameAt  func(v uintptr, i uint64, out *uintptr) int32
	nodeValGetPropertyValueAt func(v uintptr, i uint64, out uintptr) int32
	relValGetIDVal            func(v, out uintptr) int32
	relValGetSrcIDVal         func(v, out uintptr) int32
	relValGetDstIDVal         func(v, out uintptr) int32
	relValGetLabelVal         func(v, out uintptr) int32
	relValGetPropertySize     func(v uintptr, out *uint64) int32
	relValGetPropertyNameAt   func(v uintptr, i uint64, out *uintptr) int32
	relValGetPropertyValueAt  func(v uintptr, i uint64, out uintptr) int32

	destroyString func(s uintptr)
	getVersion    func() uintptr
}

// register resolves every symbol. A missing required symbol fails the load.
func (lib *nativeLibrary) register() error {
	required := []struct {
		fptr any
		name string
	}{
		{&lib.databaseDestroy, "kuzu_database_destroy"},
		{&lib.connectionInit, "kuzu_connection_init"},
		{&lib.connectionDestroy, "kuzu_connection_destroy"},
		{&lib.connectionQuery, "kuzu_connection_query"},
		{&lib.connectionPrepare, "kuzu_connection_prepare"},
		{&lib.connectionExecute, "kuzu_connection_execute"},
		{&lib.preparedStatementDestroy, "kuzu_prepared_statement_destroy"},
		{&lib.preparedStatementIsSuccess, "kuzu_prepared_statement_is_success"},
		{&lib.preparedStatementGetErrorMessage, "kuzu_prepared_statement_get_error_message"},
		{&lib.preparedStatementBindValue, "kuzu_prepared_statement_bind_value"},
		{&lib.queryResultDestroy, "kuzu_query_result_destroy"},
		{&lib.queryResultIsSuccess, "kuzu_query_result_is_success"},
		{&lib.queryResultGetErrorMessage, "kuzu_query_result_get_error_message"},
		{&lib.queryResultGetNumColumns, "kuzu_query_result_get_num_columns"},
		{&lib.queryResultGetColumnName, "kuzu_query_result_get_column_name"},
		{&lib.queryResultGetNumTuples, "kuzu_query_result_get_num_tuples"},
		{&lib.queryResultHasNext, "kuzu_query_result_has_next"},
		{&lib.queryResultGetNext, "kuzu_query_result_get_next"},
		{&lib.queryResultHasNextQueryResult, "kuzu_query_result_has_next_query_result"},
		{&lib.queryResultGetNextQueryResult, "kuzu_query_result_get_next_query_result"},
		{&lib.queryResultResetIterator, "kuzu_query_result_reset_iterator"},
		{&lib.queryResultToString, "kuzu_query_result_to_string"},
		{&lib.flatTupleDestroy, "kuzu_flat_tuple_destroy"},
		{&lib.flatTupleGetValue, "kuzu_flat_tuple_get_value"},
		{&lib.flatTupleToString, "kuzu_flat_tuple_to_string"},
		{&lib.valueCreateNull, "kuzu_value_create_null"},
		{&lib.valueCreateNullWithDataType, "kuzu_value_create_null_with_data_type"},
		{&lib.valueCreateBool, "kuzu_value_create_bool"},
		{&lib.valueCreateInt8, "kuzu_value_create_int8"},
		{&lib.valueCreateInt16, "kuzu_value_create_int16"},
		{&lib.valueCreateInt32, "kuzu_value_create_int32"},
		{&lib.valueCreateInt64, "kuzu_value_create_int64"},
		{&lib.valueCreateUint8, "kuzu_value_create_uint8"},
		{&lib.valueCreateUint16, "kuzu_value_create_uint16"},
		{&lib.valueCreateUint32, "kuzu_value_create_uint32"},
		{&lib.valueCreateUint64, "kuzu_value_create_uint64"},
		{&lib.valueCreateFloat, "kuzu_value_create_float"},
		{&lib.valueCreateDouble, "kuzu_value_create_double"},
		{&lib.valueCreateString, "kuzu_value_create_string"},
		{&lib.valueCreateDate, "kuzu_value_create_date"},
		{&lib.valueCreateTimestamp, "kuzu_value_create_timestamp"},
		{&lib.valueCreateTimestampNs, "kuzu_value_create_timestamp_ns"},
		{&lib.valueCreateTimestampMs, "kuzu_value_create_timestamp_ms"},
		{&lib.valueCreateTimestampSec, "kuzu_value_create_timestamp_sec"},
		{&lib.valueCreateTimestampTz, "kuzu_value_create_timestamp_tz"},
		{&lib.valueClone, "kuzu_value_clone"},
		{&lib.valueDestroy, "kuzu_value_destroy"},
		{&lib.valueIsNull, "kuzu_value_is_null"},
		{&lib.valueSetNull, "kuzu_value_set_null"},
		{&lib.valueGetDataType, "kuzu_value_get_data_type"},
		{&lib.valueToString, "kuzu_value_to_string"},
		{&lib.dataTypeCreate, "kuzu_data_type_create"},
		{&lib.dataTypeGetID, "kuzu_data_type_get_id"},
		{&lib.dataTypeDestroy, "kuzu_data_type_destroy"},
		{&lib.valueGetBool, "kuzu_value_get_bool"},
		{&lib.valueGetInt8, "kuzu_value_get_int8"},
		{&lib.valueGetInt16, "kuzu_value_get_int16"},
		{&lib.valueGetInt32, "kuzu_value_get_int32"},
		{&lib.valueGetInt64, "kuzu_value_get_int64"},
		{&lib.valueGetUint8, "kuzu_value_get_uint8"},
		{&lib.valueGetUint16, "kuzu_value_get_uint16"},
		{&lib.valueGetUint32, "kuzu_value_get_uint32"},
		{&lib.valueGetUint64, "kuzu_value_get_uint64"},
		{&lib.valueGetInt128, "kuzu_value_get_int128"},
		{&lib.valueGetFloat, "kuzu_value_get_float"},
		{&lib.valueGetDouble, "kuzu_value_get_double"},
		{&lib.valueGetInternalID, "kuzu_value_get_internal_id"},
		{&lib.valueGetDate, "kuzu_value_get_date"},
		{&lib.valueGetTimestamp, "kuzu_value_get_timestamp"},
		{&lib.valueGetTimestampNs, "kuzu_value_get_timestamp_ns"},
		{&lib.valueGetTimestampMs, "kuzu_value_get_timestamp_ms"},
		{&lib.valueGetTimestampS, "kuzu_value_get_timestamp_sec"},
		{&lib.valueGetTimestampTz, "kuzu_value_get_timestamp_tz"},
		{&lib.valueGetInterval, "kuzu_value_get_interval"},
		{&lib.valueGetString, "kuzu_value_get_string"},
		{&lib.valueGetUUID, "kuzu_value_get_uuid"},
		{&lib.valueGetListSize, "kuzu_value_get_list_size"},
		{&lib.valueGetListElement, "kuzu_value_get_list_element"},
		{&lib.valueGetStructNumFields, "kuzu_value_get_struct_num_fields"},
		{&lib.valueGetStructFieldName, "kuzu_value_get_struct_field_name"},
		{&lib.valueGetStructFieldValue, "kuzu_value_get_struct_field_value"},
		{&lib.valueGetMapSize, "kuzu_value_get_map_size"},
		{&lib.valueGetMapKey, "kuzu_value_get_map_key"},
		{&lib.valueGetMapValue, "kuzu_value_get_map_value"},
		{&lib.valueGetRecursiveRelNodes, "kuzu_value_get_recursive_rel_node_list"},
		{&lib.valueGetRecursiveRelRels, "kuzu_value_get_recursive_rel_rel_list"},
		{&lib.nodeValGetIDVal, "kuzu_node_val_get_id_val"},
		{&lib.nodeValGetLabelVal, "kuzu_node_val_get_label_val"},
		{&lib.nodeValGetPropertySize, "kuzu_node_val_get_property_size"},
		{&lib.nodeValGetPropertyNameAt, "kuzu_node_val_get_property_name_at"},
		{&lib.nodeValGetPropertyValueAt, "kuzu_node_val_get_property_value_at"},
		{&lib.relValGetIDVal, "kuzu_rel_val_get_id_val"},
		{&lib.relValGetSrcIDVal, "kuzu_rel_val_get_src_id_val"},
		{&lib.relValGetDstIDVal, "kuzu_rel_val_get_dst_id_val"},
		{&lib.relValGetLabelVal, "kuzu_rel_val_get_label_val"},
		{&lib.relValGetPropertySize, "kuzu_rel_val_get_property_size"},
		{&lib.relValGetPropertyNameAt, "kuzu_rel_val_get_property_name_at"},
		{&lib.relValGetPropertyValueAt, "kuzu_rel_val_get_property_value_at"},
		{&lib.destroyString, "kuzu_destroy_string"},
		{&lib.getVersion, "kuzu_get_version"},
	}
	for _, r := range required {
		sym, err := getSymbol(lib.handle, r.name)
		if err != nil || sym == 0 {
			return fmt.Errorf("missing symbol %s: %v", r.name, err)
		}
		purego.RegisterFunc(r.fptr, sym)
	}

	raw := []struct {
		sym  *uintptr
		name string
	}{
		{&lib.symDatabaseInit, "kuzu_database_init"},
		{&lib.symValueCreateInt128, "kuzu_value_create_int128"},
		{&lib.symValueCreateIntvl, "kuzu_value_create_interval"},
		{&lib.symValueCreateID, "kuzu_value_create_internal_id"},
	}
	for _, r := range raw {
		sym, err := getSymbol(lib.handle, r.name)
		if err != nil || sym == 0 {
			return fmt.Errorf("missing symbol %s: %v", r.name, err)
		}
		*r.sym = sym
	}

	if sym, err := getSymbol(lib.handle, "kuzu_connection_interrupt"); err == nil && sym != 0 {
		purego.RegisterFunc(&lib.connectionInterrupt, sym)
	}
	if sym, err := getSymbol(lib.handle, "kuzu_connection_set_query_timeout"); err == nil && sym != 0 {
		purego.RegisterFunc(&lib.connectionSetQueryTimeout, sym)
	}
	return nil
}

func (lib *nativeLibrary) versionString() string {
	return lib.takeString(lib.getVersion())
}

// takeString copies a NUL terminated string the library allocated and
// releases it.
func (lib *nativeLibrary) takeString(p uintptr) string {
	if p == 0 {
		return ""
	}
	s := goString(p)
	lib.destroyString(p)
	return s
}

func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	ptr := (*byte)(unsafe.Pointer(p))
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(ptr), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(ptr, n))
}

// cString returns a NUL terminated copy of s for raw calls. The slice must
// stay reachable until the call returns.
func cString(s string) (uintptr, []byte) {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return uintptr(unsafe.Pointer(&b[0])), b
}
