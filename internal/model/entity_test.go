package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledTime_ValueScan(t *testing.T) {
	in := ScheduledTime{Hour: 14, Minute: 5}
	v, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"hour":14,"minute":5}`, v)

	var fromString ScheduledTime
	require.NoError(t, fromString.Scan(v))
	assert.Equal(t, in, fromString)

	var fromBytes ScheduledTime
	require.NoError(t, fromBytes.Scan([]byte(`{"hour":9,"minute":45}`)))
	assert.Equal(t, ScheduledTime{Hour: 9, Minute: 45}, fromBytes)
}

func TestScheduledTime_ScanEdgeCases(t *testing.T) {
	st := ScheduledTime{Hour: 1, Minute: 2}
	require.NoError(t, st.Scan(nil))
	assert.Equal(t, ScheduledTime{Hour: 1, Minute: 2}, st, "NULL leaves the value untouched")

	assert.Error(t, st.Scan([]byte{}))
	assert.Error(t, st.Scan(""))
	assert.Error(t, st.Scan(42))
	assert.Error(t, st.Scan([]byte("not json")))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusWaiting, OrderStatusReady, OrderStatusFailed} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("done").Valid())
	assert.False(t, OrderStatus("").Valid())

	for _, s := range []TechnicianStatus{TechnicianStatusAvailable, TechnicianStatusBusy, TechnicianStatusLeave} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TechnicianStatus("sick").Valid())
}

func TestPriceOrZero(t *testing.T) {
	o := &Order{}
	assert.Zero(t, o.PriceOrZero())
	p := 125.5
	o.Price = &p
	assert.Equal(t, 125.5, o.PriceOrZero())
}
