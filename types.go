package kuzu

import "fmt"

// DataType is the tag identifying which variant a Value holds. The numeric
// values follow the engine's kuzu_data_type_id enumeration.
type DataType int32

// Engine data type ids.
const (
	TypeAny          DataType = 0
	TypeNode         DataType = 10
	TypeRel          DataType = 11
	TypeRecursiveRel DataType = 12
	TypeSerial       DataType = 13
	TypeBool         DataType = 22
	TypeInt64        DataType = 23
	TypeInt32        DataType = 24
	TypeInt16        DataType = 25
	TypeInt8         DataType = 26
	TypeUint64       DataType = 27
	TypeUint32       DataType = 28
	TypeUint16       DataType = 29
	TypeUint8        DataType = 30
	TypeInt128       DataType = 31
	TypeDouble       DataType = 32
	TypeFloat        DataType = 33
	TypeDate         DataType = 34
	TypeTimestamp    DataType = 35
	TypeTimestampSec DataType = 36
	TypeTimestampMs  DataType = 37
	TypeTimestampNs  DataType = 38
	TypeTimestampTz  DataType = 39
	TypeInterval     DataType = 40
	TypeDecimal      DataType = 41
	TypeInternalID   DataType = 42
	TypeString       DataType = 50
	TypeBlob         DataType = 51
	TypeList         DataType = 52
	TypeArray        DataType = 53
	TypeStruct       DataType = 54
	TypeMap          DataType = 55
	TypeUnion        DataType = 56
	TypePointer      DataType = 58
	TypeUUID         DataType = 59
)

var dataTypeNames = map[DataType]string{
	TypeAny:          "ANY",
	TypeNode:         "NODE",
	TypeRel:          "REL",
	TypeRecursiveRel: "RECURSIVE_REL",
	TypeSerial:       "SERIAL",
	TypeBool:         "BOOL",
	TypeInt64:        "INT64",
	TypeInt32:        "INT32",
	TypeInt16:        "INT16",
	TypeInt8:         "INT8",
	TypeUint64:       "UINT64",
	TypeUint32:       "UINT32",
	TypeUint16:       "UINT16",
	TypeUint8:        "UINT8",
	TypeInt128:       "INT128",
	TypeDouble:       "DOUBLE",
	TypeFloat:        "FLOAT",
	TypeDate:         "DATE",
	TypeTimestamp:    "TIMESTAMP",
	TypeTimestampSec: "TIMESTAMP_SEC",
	TypeTimestampMs:  "TIMESTAMP_MS",
	TypeTimestampNs:  "TIMESTAMP_NS",
	TypeTimestampTz:  "TIMESTAMP_TZ",
	TypeInterval:     "INTERVAL",
	TypeDecimal:      "DECIMAL",
	TypeInternalID:   "INTERNAL_ID",
	TypeString:       "STRING",
	TypeBlob:         "BLOB",
	TypeList:         "LIST",
	TypeArray:        "ARRAY",
	TypeStruct:       "STRUCT",
	TypeMap:          "MAP",
	TypeUnion:        "UNION",
	TypePointer:      "POINTER",
	TypeUUID:         "UUID",
}

// String returns the engine's name for the type.
func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int32(t))
}

// IsTimestamp reports whether t is one of the five timestamp precisions.
func (t DataType) IsTimestamp() bool {
	switch t {
	case TypeTimestamp, TypeTimestampSec, TypeTimestampMs, TypeTimestampNs, TypeTimestampTz:
		return true
	}
	return false
}

// IsContainer reports whether values of t expose child values.
func (t DataType) IsContainer() bool {
	switch t {
	case TypeList, TypeArray, TypeStruct, TypeMap, TypeNode, TypeRel, TypeRecursiveRel, TypeUnion:
		return true
	}
	return false
}

func (t DataType) isSigned() bool {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeSerial:
		return true
	}
	return false
}

func (t DataType) isUnsigned() bool {
	switch t {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return true
	}
	return false
}
